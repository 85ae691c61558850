package engine

// rentPercent maps level to rent as a percentage of the base price
var rentPercent = [MaxLevel + 1]int{10, 30, 60, 100}

var levelNames = [MaxLevel + 1]string{"空地", "房子", "旅馆", "酒店"}

// Property represents an ownable board space
type Property struct {
	Name        string   `json:"name"`
	BasePrice   int      `json:"base_price"`
	Level       int      `json:"level"`
	Rent        int      `json:"rent"`
	UpgradeCost int      `json:"upgrade_cost"`
	Owner       PlayerID `json:"owner,omitempty"`
}

// NewProperty creates a vacant level-0 property
func NewProperty(name string, basePrice int) *Property {
	p := &Property{
		Name:        name,
		BasePrice:   basePrice,
		UpgradeCost: basePrice / 2,
	}
	p.updateRent()
	return p
}

func (p *Property) updateRent() {
	p.Rent = p.BasePrice * rentPercent[p.Level] / 100
}

// IsVacant reports whether nobody owns the property
func (p *Property) IsVacant() bool {
	return p.Owner == NoOwner
}

// CanUpgrade reports whether the level is below the cap
func (p *Property) CanUpgrade() bool {
	return p.Level < MaxLevel
}

// upgrade raises the level by one and recomputes rent. It returns false at the cap.
func (p *Property) upgrade() bool {
	if !p.CanUpgrade() {
		return false
	}
	p.Level++
	p.updateRent()
	return true
}

// LevelName returns the display name of the current level
func (p *Property) LevelName() string {
	return levelNames[p.Level]
}

// Value is the amount of cash sunk into the property at its current level
func (p *Property) Value() int {
	return p.BasePrice + p.Level*p.UpgradeCost
}

func (p *Property) reset() {
	p.Owner = NoOwner
	p.Level = 0
	p.updateRent()
}
