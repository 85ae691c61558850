package engine

// Player is a mutable player account
type Player struct {
	ID          PlayerID `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Cash        int      `json:"cash"`
	Position    int      `json:"position"`
	OwnedSpaces []int    `json:"owned_spaces"`
	HasFreeRent bool     `json:"has_free_rent"`
}

// NewPlayer creates a player with starting cash at the start space
func NewPlayer(id PlayerID, setup PlayerSetup) *Player {
	p := &Player{
		ID:    id,
		Name:  setup.Name,
		Color: setup.Color,
		Icon:  setup.Icon,
	}
	p.reset()
	return p
}

// Owns reports whether index is in the player's owned list
func (p *Player) Owns(index int) bool {
	for _, i := range p.OwnedSpaces {
		if i == index {
			return true
		}
	}
	return false
}

func (p *Player) addSpace(index int) {
	p.OwnedSpaces = append(p.OwnedSpaces, index)
}

func (p *Player) removeSpace(index int) bool {
	for i, owned := range p.OwnedSpaces {
		if owned == index {
			p.OwnedSpaces = append(p.OwnedSpaces[:i], p.OwnedSpaces[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Player) reset() {
	p.Cash = StartingCash
	p.Position = 0
	p.OwnedSpaces = []int{}
	p.HasFreeRent = false
}

func (p *Player) snapshot() Player {
	out := *p
	out.OwnedSpaces = append([]int{}, p.OwnedSpaces...)
	return out
}
