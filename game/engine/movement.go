package engine

// Roll throws the die, moves the current player and resolves the landing.
// Passing start from a nonzero position pays the pass-start bonus.
func (e *GameEngine) Roll() (*RollOutcome, error) {
	if e.turn.hasRolled {
		return nil, ruleError("roll", ReasonAlreadyRolled)
	}

	player := e.current()
	steps := e.src.Intn(DiceFaces) + 1
	from := player.Position
	to := (from + steps) % e.board.Len()

	e.turn.hasRolled = true
	e.turn.lastRoll = steps
	e.turn.landingResolved = false
	player.Position = to

	out := &RollOutcome{
		PlayerID:     player.ID,
		Steps:        steps,
		FromPosition: from,
		ToPosition:   to,
	}
	e.record(LogRoll, player.ID, steps, "%s掷出%d点，从%s前进到%s",
		player.Name, steps, e.board.SpaceAt(from).Name, e.board.SpaceAt(to).Name)

	if from != 0 && from+steps >= e.board.Len() {
		player.Cash += PassStartBonus
		out.PassedStart = true
		out.Bonus = PassStartBonus
		e.record(LogPassStart, player.ID, PassStartBonus, "%s经过起点，获得%d元", player.Name, PassStartBonus)
	}

	landing, err := e.ResolveLanding()
	if err != nil {
		return out, err
	}
	out.Landing = landing
	return out, nil
}

// ResolveLanding applies the effect of the space under the current player.
// It runs once per turn; Roll calls it automatically.
func (e *GameEngine) ResolveLanding() (*LandingOutcome, error) {
	if !e.turn.hasRolled {
		return nil, ruleError("resolve_landing", ReasonNotRolled)
	}
	if e.turn.landingResolved {
		return nil, ruleError("resolve_landing", ReasonLandingResolved)
	}

	player := e.current()
	space := e.board.SpaceAt(player.Position)
	out := &LandingOutcome{
		Kind:      LandingNoEffect,
		Position:  space.Index,
		SpaceName: space.Name,
	}

	switch space.Kind {
	case SpaceStart:
	case SpaceProperty:
		prop := space.Property
		if prop.IsVacant() || prop.Owner == player.ID {
			break
		}
		owner := e.playerByID(prop.Owner)
		if owner == nil {
			return nil, violation("space %d owned by unknown player %d", space.Index, prop.Owner)
		}
		out.Payer = player.ID
		out.Payee = owner.ID
		if player.HasFreeRent {
			player.HasFreeRent = false
			out.Kind = LandingRentWaived
			e.record(LogRentWaived, player.ID, 0, "%s使用了免租机会！", player.Name)
			break
		}
		player.Cash -= prop.Rent
		owner.Cash += prop.Rent
		out.Kind = LandingRent
		out.Amount = prop.Rent
		e.record(LogRent, player.ID, prop.Rent, "%s支付租金%d元给%s", player.Name, prop.Rent, owner.Name)
	case SpaceChance, SpaceFate:
		deck := e.chance
		if space.Kind == SpaceFate {
			deck = e.fate
		}
		cards := deck.Draw(e.src, CardsPerDraw)
		e.turn.pendingDraw = &PendingDraw{Deck: deck.Kind(), Cards: cards}
		out.Kind = LandingEventDraw
		out.Deck = deck.Kind()
		out.Cards = append([]EventCard{}, cards...)
		e.record(LogDraw, player.ID, 0, "%s来到%s，抽取%d张卡片", player.Name, space.Name, len(cards))
	default:
		return nil, violation("space %d has unknown kind %q", space.Index, space.Kind)
	}

	e.turn.landingResolved = true
	return out, nil
}

// teleport places the player directly on index without pass-start logic
func (e *GameEngine) teleport(player *Player, index int) MoveStep {
	step := MoveStep{From: player.Position, To: index}
	player.Position = index
	return step
}

// walkLoop moves the player once around the whole board one space at a time.
// Intermediate stops are not resolved.
func (e *GameEngine) walkLoop(player *Player) []MoveStep {
	n := e.board.Len()
	start := player.Position
	steps := make([]MoveStep, 0, n)
	for i := 1; i <= n; i++ {
		step := MoveStep{From: (start + i - 1) % n, To: (start + i) % n}
		player.Position = step.To
		steps = append(steps, step)
	}
	return steps
}
