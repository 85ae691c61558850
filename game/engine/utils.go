package engine

// TotalCash sums the cash of all players
func TotalCash(players []Player) int {
	total := 0
	for _, p := range players {
		total += p.Cash
	}
	return total
}

// FindPlayer returns the player with the given id from a snapshot
func FindPlayer(state *GameState, id PlayerID) (Player, bool) {
	for _, p := range state.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// NetWorth is cash plus the value sunk into every owned property
func NetWorth(state *GameState, id PlayerID) int {
	player, ok := FindPlayer(state, id)
	if !ok {
		return 0
	}
	worth := player.Cash
	for _, idx := range player.OwnedSpaces {
		if idx >= 0 && idx < len(state.Board) && state.Board[idx].Property != nil {
			worth += state.Board[idx].Property.Value()
		}
	}
	return worth
}

// CountSpaceKind counts the spaces of a specific kind on a board snapshot
func CountSpaceKind(board []Space, kind SpaceKind) int {
	count := 0
	for _, s := range board {
		if s.Kind == kind {
			count++
		}
	}
	return count
}

// ExpectedCashDelta is the mean cash effect of drawing one card uniformly
// from the deck, counting only money cards and flat bonuses.
func ExpectedCashDelta(d *Deck) float64 {
	if d.Len() == 0 {
		return 0
	}
	sum := 0
	for _, c := range d.Cards() {
		switch {
		case c.IsMoney():
			sum += c.Amount
		case c.Action == ActionMoveToStart:
			sum += MoveToStartBonus
		case c.Action == ActionCollectRent:
			sum += c.Amount * (PlayerCount - 1)
		}
	}
	return float64(sum) / float64(d.Len())
}

// RentTable returns rent for each level of a property priced basePrice
func RentTable(basePrice int) [MaxLevel + 1]int {
	var out [MaxLevel + 1]int
	for level, pct := range rentPercent {
		out[level] = basePrice * pct / 100
	}
	return out
}
