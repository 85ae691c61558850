package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	State() *GameState
	Initialize() *GameState
	CurrentPlayer() Player
	LegalActions() LegalActions
	CheckInvariants() error

	// Turn operations
	Roll() (*RollOutcome, error)
	ResolveLanding() (*LandingOutcome, error)
	ApplyEvent(card EventCard) (*EventOutcome, error)
	ChooseCard(slot int) (*EventOutcome, error)
	Buy() (*BuyOutcome, error)
	Upgrade() (*UpgradeOutcome, error)
	EndTurn() (*EndTurnOutcome, error)

	// Configuration
	GetConfig() *GameConfig

	// History
	Log() []LogEntry
}

type turnState struct {
	currentPlayerIndex int
	hasRolled          bool
	lastRoll           int
	landingResolved    bool
	pendingDraw        *PendingDraw
	turnNumber         int
}

// GameEngine implements the Engine interface. It is a single-writer state
// machine; callers must serialize access.
type GameEngine struct {
	config  *GameConfig
	board   *Board
	players []*Player
	chance  *Deck
	fate    *Deck
	src     Source
	turn    turnState
	log     []LogEntry
}

// Option customizes a GameEngine at construction
type Option func(*GameEngine)

// WithSource injects the random source
func WithSource(src Source) Option {
	return func(e *GameEngine) {
		e.src = src
	}
}

// WithSeed injects a deterministic source built from seed
func WithSeed(seed int64) Option {
	return func(e *GameEngine) {
		e.src = NewSource(seed)
	}
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		board:  NewBoard(),
		chance: ChanceDeck(),
		fate:   FateDeck(),
	}
	for i, setup := range config.Players {
		e.players = append(e.players, NewPlayer(PlayerID(i+1), NormalizeSetup(i, setup)))
	}

	if config.Seed != 0 {
		e.src = NewSource(config.Seed)
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		seed, err := NewSeed()
		if err != nil {
			return nil, fmt.Errorf("failed to seed engine: %w", err)
		}
		e.src = NewSource(seed)
	}

	e.resetTurn()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the default setup
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default config rejected: %v", err))
	}
	return e
}

// GetConfig returns the setup the engine was created with
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Board exposes the board for read-only inspection
func (e *GameEngine) Board() *Board {
	return e.board
}

// Decks returns the Chance and Fate decks
func (e *GameEngine) Decks() (chance, fate *Deck) {
	return e.chance, e.fate
}

// CurrentPlayer returns a copy of the player whose turn it is
func (e *GameEngine) CurrentPlayer() Player {
	return e.current().snapshot()
}

// Phase returns the state machine position
func (e *GameEngine) Phase() Phase {
	if e.turn.hasRolled {
		return AwaitingAction
	}
	return AwaitingRoll
}

// Initialize resets players, board and turn state. The log is kept and
// receives a reset entry.
func (e *GameEngine) Initialize() *GameState {
	for _, p := range e.players {
		p.reset()
	}
	e.board.Reset()
	e.resetTurn()
	e.record(LogReset, NoOwner, 0, "游戏开始！")
	return e.State()
}

func (e *GameEngine) resetTurn() {
	e.turn = turnState{turnNumber: 1}
}

// State returns a deep-copied snapshot for rendering
func (e *GameEngine) State() *GameState {
	players := make([]Player, len(e.players))
	total := 0
	for i, p := range e.players {
		players[i] = p.snapshot()
		total += p.Cash
	}

	var pending *PendingDraw
	if e.turn.pendingDraw != nil {
		pending = &PendingDraw{
			Deck:  e.turn.pendingDraw.Deck,
			Cards: append([]EventCard{}, e.turn.pendingDraw.Cards...),
		}
	}

	return &GameState{
		Board:              e.board.snapshot(),
		Players:            players,
		CurrentPlayerIndex: e.turn.currentPlayerIndex,
		CurrentPlayer:      e.current().ID,
		Phase:              e.Phase(),
		HasRolled:          e.turn.hasRolled,
		LastRoll:           e.turn.lastRoll,
		TurnNumber:         e.turn.turnNumber,
		PendingDraw:        pending,
		Legal:              e.LegalActions(),
		ConfigName:         e.config.Name,
		TotalCash:          total,
	}
}

// LegalActions recomputes which operations are allowed right now
func (e *GameEngine) LegalActions() LegalActions {
	_, buyErr := e.checkBuy()
	_, upgradeErr := e.checkUpgrade()
	return LegalActions{
		Roll:       !e.turn.hasRolled,
		Buy:        buyErr == nil,
		Upgrade:    upgradeErr == nil,
		EndTurn:    e.checkEndTurn() == nil,
		ChooseCard: e.turn.pendingDraw != nil,
	}
}

// Buy purchases the vacant property under the current player
func (e *GameEngine) Buy() (*BuyOutcome, error) {
	prop, err := e.checkBuy()
	if err != nil {
		return nil, err
	}

	player := e.current()
	player.Cash -= prop.BasePrice
	prop.Owner = player.ID
	player.addSpace(player.Position)

	e.record(LogBuy, player.ID, prop.BasePrice, "%s购买了%s，花费%d元", player.Name, prop.Name, prop.BasePrice)

	return &BuyOutcome{
		PlayerID:  player.ID,
		Position:  player.Position,
		SpaceName: prop.Name,
		Price:     prop.BasePrice,
		CashAfter: player.Cash,
	}, nil
}

func (e *GameEngine) checkBuy() (*Property, error) {
	if !e.turn.hasRolled {
		return nil, ruleError("buy", ReasonNotRolled)
	}
	player := e.current()
	prop := e.board.PropertyAt(player.Position)
	if prop == nil || !prop.IsVacant() {
		return nil, ruleError("buy", ReasonNotPurchasable)
	}
	if player.Cash < prop.BasePrice {
		return nil, ruleError("buy", ReasonInsufficientFunds)
	}
	return prop, nil
}

// Upgrade raises the level of the current player's property by one
func (e *GameEngine) Upgrade() (*UpgradeOutcome, error) {
	prop, err := e.checkUpgrade()
	if err != nil {
		return nil, err
	}

	player := e.current()
	player.Cash -= prop.UpgradeCost
	prop.upgrade()

	e.record(LogUpgrade, player.ID, prop.UpgradeCost, "%s将%s升级为%s，花费%d元",
		player.Name, prop.Name, prop.LevelName(), prop.UpgradeCost)

	return &UpgradeOutcome{
		PlayerID:  player.ID,
		Position:  player.Position,
		SpaceName: prop.Name,
		Cost:      prop.UpgradeCost,
		Level:     prop.Level,
		LevelName: prop.LevelName(),
		Rent:      prop.Rent,
		CashAfter: player.Cash,
	}, nil
}

func (e *GameEngine) checkUpgrade() (*Property, error) {
	if !e.turn.hasRolled {
		return nil, ruleError("upgrade", ReasonNotRolled)
	}
	player := e.current()
	prop := e.board.PropertyAt(player.Position)
	if prop == nil || prop.Owner != player.ID {
		return nil, ruleError("upgrade", ReasonNotOwner)
	}
	if !prop.CanUpgrade() {
		return nil, ruleError("upgrade", ReasonMaxLevel)
	}
	if player.Cash < prop.UpgradeCost {
		return nil, ruleError("upgrade", ReasonInsufficientFunds)
	}
	return prop, nil
}

// EndTurn hands the turn to the next player in order
func (e *GameEngine) EndTurn() (*EndTurnOutcome, error) {
	if err := e.checkEndTurn(); err != nil {
		return nil, err
	}

	prev := e.current()
	e.turn.currentPlayerIndex = (e.turn.currentPlayerIndex + 1) % len(e.players)
	e.turn.hasRolled = false
	e.turn.lastRoll = 0
	e.turn.landingResolved = false
	e.turn.turnNumber++
	next := e.current()

	e.record(LogEndTurn, prev.ID, 0, "%s结束回合，轮到%s", prev.Name, next.Name)

	return &EndTurnOutcome{
		PreviousPlayer: prev.ID,
		NextPlayer:     next.ID,
		TurnNumber:     e.turn.turnNumber,
	}, nil
}

func (e *GameEngine) checkEndTurn() error {
	if !e.turn.hasRolled {
		return ruleError("end_turn", ReasonNotRolled)
	}
	if e.turn.pendingDraw != nil {
		return ruleError("end_turn", ReasonPendingDraw)
	}
	return nil
}

// Log returns a copy of the game log in order
func (e *GameEngine) Log() []LogEntry {
	return append([]LogEntry{}, e.log...)
}

// LastLogEntry returns the most recent log entry, or nil if none
func (e *GameEngine) LastLogEntry() *LogEntry {
	if len(e.log) == 0 {
		return nil
	}
	entry := e.log[len(e.log)-1]
	return &entry
}

// CheckInvariants verifies that ownership is mirrored between players and
// properties and that every level and rent is in range.
func (e *GameEngine) CheckInvariants() error {
	holder := make(map[int]PlayerID)
	for _, p := range e.players {
		for _, idx := range p.OwnedSpaces {
			prop := e.board.PropertyAt(idx)
			if prop == nil {
				return violation("player %d owns non-property space %d", p.ID, idx)
			}
			if other, dup := holder[idx]; dup {
				return violation("space %d owned by players %d and %d", idx, other, p.ID)
			}
			holder[idx] = p.ID
			if prop.Owner != p.ID {
				return violation("space %d listed by player %d but owner is %d", idx, p.ID, prop.Owner)
			}
		}
	}

	for _, idx := range e.board.PropertyIndices() {
		prop := e.board.PropertyAt(idx)
		if prop.Level < 0 || prop.Level > MaxLevel {
			return violation("space %d has level %d", idx, prop.Level)
		}
		if want := prop.BasePrice * rentPercent[prop.Level] / 100; prop.Rent != want {
			return violation("space %d rent %d, want %d", idx, prop.Rent, want)
		}
		if prop.IsVacant() {
			continue
		}
		if owner := e.playerByID(prop.Owner); owner == nil || !owner.Owns(idx) {
			return violation("space %d owner %d does not list it", idx, prop.Owner)
		}
	}
	return nil
}

func (e *GameEngine) current() *Player {
	return e.players[e.turn.currentPlayerIndex]
}

func (e *GameEngine) playerByID(id PlayerID) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *GameEngine) record(kind LogType, player PlayerID, amount int, format string, args ...any) {
	e.log = append(e.log, LogEntry{
		ID:        uuid.NewString(),
		Seq:       len(e.log) + 1,
		Turn:      e.turn.turnNumber,
		Type:      kind,
		PlayerID:  player,
		Amount:    amount,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now().Unix(),
	})
}
