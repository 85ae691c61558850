package engine

// SpaceKind identifies which variant a Space holds
type SpaceKind string

const (
	SpaceStart    SpaceKind = "start"
	SpaceProperty SpaceKind = "property"
	SpaceChance   SpaceKind = "chance"
	SpaceFate     SpaceKind = "fate"

	// Rule constants
	BoardLength      = 24
	StartingCash     = 10000
	PassStartBonus   = 2000
	MoveToStartBonus = 2000
	MaxLevel         = 3
	CardsPerDraw     = 3
	DiceFaces        = 6
	PlayerCount      = 2
	PriceStep        = 1000
)

// PlayerID is the stable 1-based identifier of a player. NoOwner marks a vacant property.
type PlayerID int

const NoOwner PlayerID = 0

// Phase is the turn state machine position
type Phase string

const (
	AwaitingRoll   Phase = "awaiting_roll"
	AwaitingAction Phase = "awaiting_action"
)

// Space represents a single cell of the board loop.
// Property is set only when Kind is SpaceProperty.
type Space struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Kind     SpaceKind `json:"kind"`
	Property *Property `json:"property,omitempty"`
}

// AsProperty returns the property held by the space, if any
func (s *Space) AsProperty() (*Property, bool) {
	if s.Kind != SpaceProperty || s.Property == nil {
		return nil, false
	}
	return s.Property, true
}

// PlayerSetup is the presentation data collected before a game starts
type PlayerSetup struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// GameConfig represents a setup preset loaded from JSON
type GameConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Players     []PlayerSetup `json:"players"`
	Seed        int64         `json:"seed,omitempty"`
}

// PendingDraw holds the cards offered after landing on Chance or Fate
type PendingDraw struct {
	Deck  DeckKind    `json:"deck"`
	Cards []EventCard `json:"cards"`
}

// LegalActions reports which operations are currently allowed
type LegalActions struct {
	Roll       bool `json:"roll"`
	Buy        bool `json:"buy"`
	Upgrade    bool `json:"upgrade"`
	EndTurn    bool `json:"end_turn"`
	ChooseCard bool `json:"choose_card"`
}

// GameState is a detached snapshot of the whole game
type GameState struct {
	Board              []Space      `json:"board"`
	Players            []Player     `json:"players"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	CurrentPlayer      PlayerID     `json:"current_player"`
	Phase              Phase        `json:"phase"`
	HasRolled          bool         `json:"has_rolled"`
	LastRoll           int          `json:"last_roll,omitempty"`
	TurnNumber         int          `json:"turn_number"`
	PendingDraw        *PendingDraw `json:"pending_draw,omitempty"`
	Legal              LegalActions `json:"legal"`
	ConfigName         string       `json:"config_name"`
	TotalCash          int          `json:"total_cash"`
}

// LogType classifies entries of the game log
type LogType string

const (
	LogRoll       LogType = "roll"
	LogPassStart  LogType = "pass_start"
	LogRent       LogType = "rent"
	LogRentWaived LogType = "rent_waived"
	LogDraw       LogType = "draw"
	LogCard       LogType = "card"
	LogMove       LogType = "move"
	LogBuy        LogType = "buy"
	LogUpgrade    LogType = "upgrade"
	LogEndTurn    LogType = "end_turn"
	LogReset      LogType = "reset"
)

// LogEntry represents a single line of the game log
type LogEntry struct {
	ID        string   `json:"id"`
	Seq       int      `json:"seq"`
	Turn      int      `json:"turn"`
	Type      LogType  `json:"type"`
	PlayerID  PlayerID `json:"player_id,omitempty"`
	Amount    int      `json:"amount,omitempty"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
}
