package engine

// LandingKind tags the result of resolving the space a player stopped on
type LandingKind string

const (
	LandingRent       LandingKind = "rent"
	LandingRentWaived LandingKind = "rent_waived"
	LandingNoEffect   LandingKind = "no_effect"
	LandingEventDraw  LandingKind = "event_draw"
)

// RollOutcome describes a dice roll and the landing it triggered
type RollOutcome struct {
	PlayerID     PlayerID        `json:"player_id"`
	Steps        int             `json:"steps"`
	FromPosition int             `json:"from_position"`
	ToPosition   int             `json:"to_position"`
	PassedStart  bool            `json:"passed_start"`
	Bonus        int             `json:"bonus,omitempty"`
	Landing      *LandingOutcome `json:"landing,omitempty"`
}

// LandingOutcome is a tagged result; fields beyond Kind are set per kind.
// Rent sets Payer, Payee and Amount. EventDraw sets Deck and Cards.
type LandingOutcome struct {
	Kind      LandingKind `json:"kind"`
	Position  int         `json:"position"`
	SpaceName string      `json:"space_name"`
	Payer     PlayerID    `json:"payer,omitempty"`
	Payee     PlayerID    `json:"payee,omitempty"`
	Amount    int         `json:"amount,omitempty"`
	Deck      DeckKind    `json:"deck,omitempty"`
	Cards     []EventCard `json:"cards,omitempty"`
}

// MoveStep is one hop of a token, for animation sequencing
type MoveStep struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Payment is a cash transfer between two players
type Payment struct {
	Payer  PlayerID `json:"payer"`
	Payee  PlayerID `json:"payee"`
	Amount int      `json:"amount"`
}

// EventOutcome describes the committed effect of a chosen card
type EventOutcome struct {
	Card          EventCard  `json:"card"`
	PlayerID      PlayerID   `json:"player_id"`
	Applied       bool       `json:"applied"`
	CashDelta     int        `json:"cash_delta"`
	FromPosition  int        `json:"from_position"`
	ToPosition    int        `json:"to_position"`
	Moves         []MoveStep `json:"moves,omitempty"`
	SwappedWith   PlayerID   `json:"swapped_with,omitempty"`
	GivenSpace    int        `json:"given_space,omitempty"`
	ReceivedSpace int        `json:"received_space,omitempty"`
	Payments      []Payment  `json:"payments,omitempty"`
	Upgraded      []int      `json:"upgraded,omitempty"`
	Message       string     `json:"message"`
}

// BuyOutcome describes a completed purchase
type BuyOutcome struct {
	PlayerID  PlayerID `json:"player_id"`
	Position  int      `json:"position"`
	SpaceName string   `json:"space_name"`
	Price     int      `json:"price"`
	CashAfter int      `json:"cash_after"`
}

// UpgradeOutcome describes a completed upgrade
type UpgradeOutcome struct {
	PlayerID  PlayerID `json:"player_id"`
	Position  int      `json:"position"`
	SpaceName string   `json:"space_name"`
	Cost      int      `json:"cost"`
	Level     int      `json:"level"`
	LevelName string   `json:"level_name"`
	Rent      int      `json:"rent"`
	CashAfter int      `json:"cash_after"`
}

// EndTurnOutcome describes a turn handover
type EndTurnOutcome struct {
	PreviousPlayer PlayerID `json:"previous_player"`
	NextPlayer     PlayerID `json:"next_player"`
	TurnNumber     int      `json:"turn_number"`
}
