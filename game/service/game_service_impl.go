package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/dafuweng/game/engine"
)

// reasonMessages are shown to players when a move is refused
var reasonMessages = map[engine.Reason]string{
	engine.ReasonAlreadyRolled:     "本回合已经掷过骰子",
	engine.ReasonNotRolled:         "请先掷骰子",
	engine.ReasonLandingResolved:   "本回合的落点已经结算",
	engine.ReasonNotPurchasable:    "这里不能购买",
	engine.ReasonInsufficientFunds: "资金不足！",
	engine.ReasonNotOwner:          "只能升级自己的地产",
	engine.ReasonMaxLevel:          "已经是最高等级",
	engine.ReasonNoPendingDraw:     "没有待选择的卡片",
	engine.ReasonCardNotOffered:    "所选卡片不在候选之中",
	engine.ReasonPendingDraw:       "请先选择一张卡片",
}

// ReasonMessage returns the player-facing text for a refusal reason
func ReasonMessage(reason engine.Reason) string {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return string(reason)
}

// gameServiceImpl implements the GameService interface. Every path that
// touches a session holds mu, since lookups also stamp LastAccessedAt.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session from a preset, applying any
// player or seed overrides from the request
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var base *engine.GameConfig
	if req.ConfigID != "" {
		loaded, err := s.configs.LoadConfig(req.ConfigID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(req.ConfigID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", req.ConfigID, err)
		}
		base = loaded
	} else {
		base = s.configs.GetDefault()
	}
	if base == nil {
		base = engine.DefaultGameConfig()
	}

	config := *base
	config.Players = append([]engine.PlayerSetup{}, base.Players...)
	if len(req.Players) > 0 {
		config.Players = append([]engine.PlayerSetup{}, req.Players...)
	}
	if req.Seed != 0 {
		config.Seed = req.Seed
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sess, err := s.sessions.Create("", &config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := req.ConfigID
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().
		Str("session", sess.ID).
		Str("config", configID).
		Bool("seeded", config.Seed != 0).
		Msg("session created")

	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}, nil
}

func (s *gameServiceImpl) configNotFound(configID string) error {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil && len(availableConfigs) > 0 {
		ids := make([]string, 0, len(availableConfigs))
		for _, cfg := range availableConfigs {
			ids = append(ids, cfg.ConfigID)
		}
		return fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configID, ids)
	}
	return fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configID)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context, opts ListOptions) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i].CreatedAt, sessions[j].CreatedAt
		if opts.SortBy == "accessed" {
			a, b = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if a.Equal(b) {
			return sessions[i].ID < sessions[j].ID
		}
		if opts.Order == "desc" {
			return a.After(b)
		}
		return a.Before(b)
	})
	if opts.Limit > 0 && len(sessions) > opts.Limit {
		sessions = sessions[:opts.Limit]
	}

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Roll throws the die for the current player
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "roll", func(e *engine.GameEngine, res *ActionResult) error {
		out, err := e.Roll()
		if out != nil {
			res.Roll = out
			res.Landing = out.Landing
		}
		return err
	})
}

// Buy purchases the property under the current player
func (s *gameServiceImpl) Buy(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "buy", func(e *engine.GameEngine, res *ActionResult) error {
		out, err := e.Buy()
		res.Buy = out
		return err
	})
}

// Upgrade raises the level of the property under the current player
func (s *gameServiceImpl) Upgrade(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "upgrade", func(e *engine.GameEngine, res *ActionResult) error {
		out, err := e.Upgrade()
		res.Upgrade = out
		return err
	})
}

// ChooseCard commits one card of the pending draw
func (s *gameServiceImpl) ChooseCard(ctx context.Context, sessionID string, slot int) (*ActionResult, error) {
	return s.act(sessionID, "choose_card", func(e *engine.GameEngine, res *ActionResult) error {
		out, err := e.ChooseCard(slot)
		res.Event = out
		return err
	})
}

// EndTurn passes the turn to the next player
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "end_turn", func(e *engine.GameEngine, res *ActionResult) error {
		out, err := e.EndTurn()
		res.EndTurn = out
		return err
	})
}

// Reset starts the session's game over; the log is kept
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(sessionID, "reset", func(e *engine.GameEngine, res *ActionResult) error {
		e.Initialize()
		return nil
	})
}

// act runs one engine operation under the write lock and shapes the result.
// Rule violations become Success=false; anything else is returned as error.
func (s *gameServiceImpl) act(sessionID, op string, fn func(*engine.GameEngine, *ActionResult) error) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	logStart := len(sess.Engine.Log())
	res := &ActionResult{Success: true}

	if err := fn(sess.Engine, res); err != nil {
		var ruleErr *engine.RuleError
		if !errors.As(err, &ruleErr) {
			log.Error().Err(err).Str("session", sessionID).Str("op", op).Msg("engine failure")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res.Success = false
		res.Reason = ruleErr.Reason
		res.Message = ReasonMessage(ruleErr.Reason)
		log.Debug().
			Str("session", sessionID).
			Str("op", op).
			Str("reason", string(ruleErr.Reason)).
			Msg("move refused")
	}

	res.Events = eventsFrom(sess.Engine.Log()[logStart:])
	if res.Success {
		res.Message = summarize(res.Events)
		log.Debug().
			Str("session", sessionID).
			Str("op", op).
			Int("player", int(sess.Engine.CurrentPlayer().ID)).
			Int("events", len(res.Events)).
			Msg("move applied")
	}
	res.GameState = sess.Engine.State()
	return res, nil
}

func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func eventsFrom(entries []engine.LogEntry) []GameEvent {
	events := make([]GameEvent, 0, len(entries))
	for _, entry := range entries {
		events = append(events, GameEvent{
			ID:        entry.ID,
			Type:      string(entry.Type),
			PlayerID:  entry.PlayerID,
			Amount:    entry.Amount,
			Message:   entry.Message,
			Timestamp: time.Unix(entry.Timestamp, 0),
		})
	}
	return events
}

func summarize(events []GameEvent) string {
	msgs := make([]string, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, ev.Message)
	}
	return strings.Join(msgs, "；")
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.State(), nil
}

// GetHistory returns a page of the game log
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.Log()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []engine.LogEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = append(entries, history[start:end]...)
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available setup presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific setup preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a setup preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	log.Info().Str("config", configName).Msg("config saved")
	return nil
}

// ReloadConfigs drops cached presets so edits on disk are picked up. Running
// sessions keep the setup they started with.
func (s *gameServiceImpl) ReloadConfigs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.configs.RefreshCache()
	log.Info().Msg("config cache reloaded")
	return nil
}
