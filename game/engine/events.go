package engine

import "fmt"

// ChooseCard commits the card in the given slot of the pending offer
func (e *GameEngine) ChooseCard(slot int) (*EventOutcome, error) {
	if e.turn.pendingDraw == nil {
		return nil, ruleError("choose_card", ReasonNoPendingDraw)
	}
	cards := e.turn.pendingDraw.Cards
	if slot < 0 || slot >= len(cards) {
		return nil, ruleError("choose_card", ReasonCardNotOffered)
	}
	return e.ApplyEvent(cards[slot])
}

// ApplyEvent commits the effect of one of the offered cards. The offer is
// consumed; cards not in the offer are refused.
func (e *GameEngine) ApplyEvent(card EventCard) (*EventOutcome, error) {
	pending := e.turn.pendingDraw
	if pending == nil {
		return nil, ruleError("apply_event", ReasonNoPendingDraw)
	}
	offered := false
	for _, c := range pending.Cards {
		if c.ID == card.ID {
			card = c
			offered = true
			break
		}
	}
	if !offered {
		return nil, ruleError("apply_event", ReasonCardNotOffered)
	}

	player := e.current()
	out := &EventOutcome{
		Card:         card,
		PlayerID:     player.ID,
		Applied:      true,
		FromPosition: player.Position,
	}
	cashBefore := player.Cash

	if card.IsMoney() {
		if card.Amount == 0 {
			return nil, violation("money card %s has zero amount", card.ID)
		}
		player.Cash += card.Amount
		out.Message = fmt.Sprintf("%s%s%d元", player.Name, card.Text, abs(card.Amount))
	} else if err := e.applyAction(player, card, out); err != nil {
		return nil, err
	}

	e.turn.pendingDraw = nil
	out.ToPosition = player.Position
	out.CashDelta = player.Cash - cashBefore
	e.record(LogCard, player.ID, out.CashDelta, "%s", out.Message)
	return out, nil
}

func (e *GameEngine) applyAction(player *Player, card EventCard, out *EventOutcome) error {
	switch card.Action {
	case ActionMoveToStart:
		out.Moves = []MoveStep{e.teleport(player, 0)}
		player.Cash += MoveToStartBonus
		out.Message = fmt.Sprintf("%s直接前往起点，获得%d元", player.Name, MoveToStartBonus)

	case ActionFreeTravel:
		out.Moves = e.walkLoop(player)
		out.Message = fmt.Sprintf("%s获得免费环游机会！", player.Name)

	case ActionSwapPos:
		other := e.players[(e.turn.currentPlayerIndex+1)%len(e.players)]
		player.Position, other.Position = other.Position, player.Position
		out.SwappedWith = other.ID
		out.Moves = []MoveStep{{From: other.Position, To: player.Position}}
		out.Message = fmt.Sprintf("%s与%s交换了位置", player.Name, other.Name)

	case ActionSwapProp:
		e.swapProperty(player, out)

	case ActionCollectRent:
		for _, other := range e.players {
			if other == player {
				continue
			}
			other.Cash -= card.Amount
			player.Cash += card.Amount
			out.Payments = append(out.Payments, Payment{Payer: other.ID, Payee: player.ID, Amount: card.Amount})
		}
		out.Message = fmt.Sprintf("%s向其他玩家各收取过路费%d元", player.Name, card.Amount)

	case ActionUpgradeAll:
		for _, idx := range player.OwnedSpaces {
			if prop := e.board.PropertyAt(idx); prop != nil && prop.upgrade() {
				out.Upgraded = append(out.Upgraded, idx)
			}
		}
		if len(out.Upgraded) == 0 {
			out.Applied = false
			out.Message = fmt.Sprintf("%s没有可以升级的地产", player.Name)
		} else {
			out.Message = fmt.Sprintf("%s的所有地产都升级了一级！", player.Name)
		}

	case ActionTeleport:
		target := e.src.Intn(e.board.Len())
		out.Moves = []MoveStep{e.teleport(player, target)}
		out.Message = fmt.Sprintf("%s被随机传送到了%s", player.Name, e.board.SpaceAt(target).Name)

	case ActionFreeRent:
		player.HasFreeRent = true
		out.Message = fmt.Sprintf("%s获得一次免租机会！", player.Name)

	default:
		return violation("card %s has unknown action %q", card.ID, card.Action)
	}
	return nil
}

// swapProperty exchanges one random space of the player with one random
// space of the first other player owning anything. Swap partners are only
// well defined for two players.
func (e *GameEngine) swapProperty(player *Player, out *EventOutcome) {
	var other *Player
	for _, p := range e.players {
		if p != player && len(p.OwnedSpaces) > 0 {
			other = p
			break
		}
	}
	if len(player.OwnedSpaces) == 0 || other == nil {
		out.Applied = false
		out.Message = fmt.Sprintf("%s没有可以交换的地产", player.Name)
		return
	}

	mine := player.OwnedSpaces[e.src.Intn(len(player.OwnedSpaces))]
	theirs := other.OwnedSpaces[e.src.Intn(len(other.OwnedSpaces))]

	e.board.PropertyAt(mine).Owner = other.ID
	e.board.PropertyAt(theirs).Owner = player.ID
	player.removeSpace(mine)
	player.addSpace(theirs)
	other.removeSpace(theirs)
	other.addSpace(mine)

	out.SwappedWith = other.ID
	out.GivenSpace = mine
	out.ReceivedSpace = theirs
	out.Message = fmt.Sprintf("%s用%s与%s交换了%s", player.Name,
		e.board.SpaceAt(mine).Name, other.Name, e.board.SpaceAt(theirs).Name)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
