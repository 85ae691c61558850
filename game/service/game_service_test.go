package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/dafuweng/game/engine"
	"github.com/wricardo/dafuweng/game/service"
	"github.com/wricardo/dafuweng/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	clock    time.Time
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockSessionManager) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, opts ...engine.Option) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, err
	}

	now := m.tick()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = m.tick()
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs   map[string]*engine.GameConfig
	saved     map[string]*engine.GameConfig
	refreshes int
}

func NewMockConfigManager() *MockConfigManager {
	classic := engine.DefaultGameConfig()
	duel := &engine.GameConfig{
		Name:        "duel",
		Description: "Seeded duel",
		Players: []engine.PlayerSetup{
			{Name: "红方", Color: "#ff0000", Icon: "♖"},
			{Name: "蓝方", Color: "#0000ff", Icon: "♜"},
		},
		Seed: 77,
	}
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": classic,
			"duel":    duel,
		},
		saved: map[string]*engine.GameConfig{},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.saved[name] = config
	return nil
}

func (m *MockConfigManager) RefreshCache() {
	m.refreshes++
}

func newTestService() (service.GameService, *MockSessionManager, *MockConfigManager) {
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	return service.NewGameService(sessions, configs), sessions, configs
}

func createSeeded(t *testing.T, svc service.GameService, seed int64) *service.SessionInfo {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), service.CreateSessionRequest{Seed: seed})
	require.NoError(t, err)
	return info
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, service.CreateSessionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "classic", info.ConfigName)
		assert.Equal(t, "玩家1", info.GameState.Players[0].Name)
		assert.Equal(t, engine.AwaitingRoll, info.GameState.Phase)
	})

	t.Run("specific config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "duel"})
		require.NoError(t, err)
		assert.Equal(t, "duel", info.ConfigName)
		assert.Equal(t, "红方", info.GameState.Players[0].Name)
		assert.Equal(t, int64(77), info.GameConfig.Seed)
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "nonexistent"})
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrConfigNotFound)
		assert.Contains(t, err.Error(), "Available configs")
	})

	t.Run("player override", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, service.CreateSessionRequest{
			Players: []engine.PlayerSetup{{Name: "Ann"}, {Name: "Ben", Icon: "♞"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Ann", info.GameState.Players[0].Name)
		assert.Equal(t, "♞", info.GameState.Players[1].Icon)
	})

	t.Run("override does not leak into preset", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, service.CreateSessionRequest{
			ConfigID: "duel",
			Players:  []engine.PlayerSetup{{Name: "X"}, {Name: "Y"}},
			Seed:     5,
		})
		require.NoError(t, err)

		cfg, err := svc.LoadConfig(ctx, "duel")
		require.NoError(t, err)
		assert.Equal(t, "红方", cfg.Players[0].Name)
		assert.Equal(t, int64(77), cfg.Seed)
	})

	t.Run("invalid players", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, service.CreateSessionRequest{
			Players: []engine.PlayerSetup{{Name: "Solo"}},
		})
		assert.ErrorIs(t, err, service.ErrInvalidConfig)
	})
}

func TestGameService_SeededSessionsAgree(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	a := createSeeded(t, svc, 99)
	b := createSeeded(t, svc, 99)

	for i := 0; i < 10; i++ {
		ra, err := svc.Roll(ctx, a.ID)
		require.NoError(t, err)
		rb, err := svc.Roll(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, ra.Roll.Steps, rb.Roll.Steps)

		for _, id := range []string{a.ID, b.ID} {
			state, err := svc.GetGameState(ctx, id)
			require.NoError(t, err)
			if state.PendingDraw != nil {
				_, err = svc.ChooseCard(ctx, id, 0)
				require.NoError(t, err)
			}
			_, err = svc.EndTurn(ctx, id)
			require.NoError(t, err)
		}
	}
}

func TestGameService_Roll(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 3)

	res, err := svc.Roll(ctx, info.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Roll)
	assert.Equal(t, res.Roll.Landing, res.Landing)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, "roll", res.Events[0].Type)
	assert.NotEmpty(t, res.Events[0].ID)
	assert.NotEmpty(t, res.Message)
	assert.True(t, res.GameState.HasRolled)
	assert.Equal(t, res.Roll.ToPosition, res.GameState.Players[0].Position)

	again, err := svc.Roll(ctx, info.ID)
	require.NoError(t, err, "a refused move is not an error")
	assert.False(t, again.Success)
	assert.Equal(t, engine.ReasonAlreadyRolled, again.Reason)
	assert.Equal(t, service.ReasonMessage(engine.ReasonAlreadyRolled), again.Message)
	assert.Empty(t, again.Events)
	assert.Equal(t, res.GameState.Players, again.GameState.Players)
}

func TestGameService_RefusedMoves(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 1)

	tests := []struct {
		name   string
		call   func() (*service.ActionResult, error)
		reason engine.Reason
	}{
		{"buy before roll", func() (*service.ActionResult, error) { return svc.Buy(ctx, info.ID) }, engine.ReasonNotRolled},
		{"upgrade before roll", func() (*service.ActionResult, error) { return svc.Upgrade(ctx, info.ID) }, engine.ReasonNotRolled},
		{"end turn before roll", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, info.ID) }, engine.ReasonNotRolled},
		{"choose without draw", func() (*service.ActionResult, error) { return svc.ChooseCard(ctx, info.ID, 0) }, engine.ReasonNoPendingDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call()
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.reason, res.Reason)
			assert.NotNil(t, res.GameState)
		})
	}
}

func TestGameService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Roll(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.GetGameState(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = svc.GetHistory(ctx, "nope", service.HistoryOptions{})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.ErrorIs(t, svc.DeleteSession(ctx, "nope"), service.ErrSessionNotFound)
}

func TestGameService_HotSeatGame(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 2024)

	for turn := 0; turn < 80; turn++ {
		res, err := svc.Roll(ctx, info.ID)
		require.NoError(t, err)
		require.True(t, res.Success)

		if res.GameState.Legal.ChooseCard {
			require.NotNil(t, res.Landing)
			require.Len(t, res.Landing.Cards, engine.CardsPerDraw)
			res, err = svc.ChooseCard(ctx, info.ID, turn%engine.CardsPerDraw)
			require.NoError(t, err)
			require.True(t, res.Success)
			require.NotNil(t, res.Event)
		}

		if res.GameState.Legal.Buy {
			res, err = svc.Buy(ctx, info.ID)
			require.NoError(t, err)
			require.True(t, res.Success)
			require.NotNil(t, res.Buy)
		} else if res.GameState.Legal.Upgrade {
			res, err = svc.Upgrade(ctx, info.ID)
			require.NoError(t, err)
			require.True(t, res.Success)
			require.NotNil(t, res.Upgrade)
		}

		res, err = svc.EndTurn(ctx, info.ID)
		require.NoError(t, err)
		require.True(t, res.Success)
		require.NotNil(t, res.EndTurn)
		assert.Equal(t, turn+2, res.GameState.TurnNumber)
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 8)

	_, err := svc.Roll(ctx, info.ID)
	require.NoError(t, err)

	res, err := svc.Reset(ctx, info.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "reset", res.Events[0].Type)
	assert.False(t, res.GameState.HasRolled)
	for _, p := range res.GameState.Players {
		assert.Equal(t, engine.StartingCash, p.Cash)
		assert.Equal(t, 0, p.Position)
	}

	history, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Order: "asc", Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, "roll", string(history.Entries[0].Type))
	assert.Equal(t, engine.LogReset, history.Entries[len(history.Entries)-1].Type)
}

func TestGameService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 5)

	for i := 0; i < 6; i++ {
		res, err := svc.Roll(ctx, info.ID)
		require.NoError(t, err)
		if res.GameState.Legal.ChooseCard {
			_, err = svc.ChooseCard(ctx, info.ID, 0)
			require.NoError(t, err)
		}
		_, err = svc.EndTurn(ctx, info.ID)
		require.NoError(t, err)
	}

	all, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Order: "asc", Limit: 100})
	require.NoError(t, err)
	total := all.TotalEntries
	require.GreaterOrEqual(t, total, 12)
	for i, entry := range all.Entries {
		assert.Equal(t, i+1, entry.Seq)
	}

	page, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, page.Entries, 5)
	assert.Equal(t, total, page.Entries[0].Seq, "desc is the default order")
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	assert.Equal(t, (total+4)/5, page.TotalPages)

	second, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 6, second.Entries[0].Seq)
	assert.True(t, second.HasPrevious)

	beyond, err := svc.GetHistory(ctx, info.ID, service.HistoryOptions{Page: 99, Limit: 5, Order: "asc"})
	require.NoError(t, err)
	assert.Empty(t, beyond.Entries)
	assert.NotNil(t, beyond.Entries)
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	first := createSeeded(t, svc, 1)
	second := createSeeded(t, svc, 2)
	third := createSeeded(t, svc, 3)

	list, err := svc.ListSessions(ctx, service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	// touching the first session makes it the most recently accessed
	_, err = svc.GetGameState(ctx, first.ID)
	require.NoError(t, err)

	list, err = svc.ListSessions(ctx, service.ListOptions{SortBy: "accessed", Order: "desc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestGameService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	info := createSeeded(t, svc, 1)

	require.NoError(t, svc.DeleteSession(ctx, info.ID))
	_, err := svc.GetSession(ctx, info.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _, configs := newTestService()

	list, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	custom := engine.DefaultGameConfig()
	custom.Name = "custom"
	require.NoError(t, svc.SaveConfig(ctx, "custom", custom))
	assert.Contains(t, configs.saved, "custom")

	bad := engine.DefaultGameConfig()
	bad.Players = nil
	assert.ErrorIs(t, svc.SaveConfig(ctx, "bad", bad), service.ErrInvalidConfig)

	require.NoError(t, svc.ReloadConfigs(ctx))
	assert.Equal(t, 1, configs.refreshes)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, svc.ReloadConfigs(cancelled), context.Canceled)
	assert.Equal(t, 1, configs.refreshes)
}

func TestGameService_ConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())
	info := createSeeded(t, svc, 5)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := svc.GetSession(ctx, info.ID)
				assert.NoError(t, err)
				_, err = svc.ListSessions(ctx, service.ListOptions{SortBy: "accessed", Order: "desc"})
				assert.NoError(t, err)
				_, err = svc.GetGameState(ctx, info.ID)
				assert.NoError(t, err)
				_, err = svc.GetHistory(ctx, info.ID, service.HistoryOptions{})
				assert.NoError(t, err)
				if g == 0 {
					_, err = svc.Roll(ctx, info.ID)
					assert.NoError(t, err)
					_, err = svc.EndTurn(ctx, info.ID)
					assert.NoError(t, err)
				}
			}
		}(g)
	}
	wg.Wait()

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, got.LastAccessedAt.Before(got.CreatedAt))
}
