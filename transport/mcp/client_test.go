package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/dafuweng/api"
	"github.com/wricardo/dafuweng/game/config"
	"github.com/wricardo/dafuweng/game/engine"
	"github.com/wricardo/dafuweng/game/service"
	"github.com/wricardo/dafuweng/game/session"
)

// newBackend serves the real REST API over a temp preset directory
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	preset := engine.DefaultGameConfig()
	preset.Seed = 3
	data, err := json.Marshal(preset)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(), configs)

	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return server
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

// createSession creates a session through the tool and returns its ID
func createSession(t *testing.T, client *Client, args map[string]interface{}) string {
	t.Helper()
	text, isErr := callTool(t, client.handleCreateSession, "create_session", args)
	require.False(t, isErr, text)

	line := strings.SplitN(text, "\n", 2)[0]
	require.True(t, strings.HasPrefix(line, "Created session: "), text)
	return strings.TrimPrefix(line, "Created session: ")
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "abcd"})
		case "/refused":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(service.ActionResult{Success: false, Reason: engine.ReasonNotRolled})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var ok map[string]interface{}
	require.NoError(t, client.apiCall(context.Background(), "GET", "/ok", nil, &ok))
	assert.Equal(t, "abcd", ok["id"])

	var refused service.ActionResult
	require.NoError(t, client.apiCall(context.Background(), "POST", "/refused", nil, &refused))
	assert.Equal(t, engine.ReasonNotRolled, refused.Reason)

	assert.EqualError(t, client.apiCall(context.Background(), "GET", "/missing", nil, nil), "session not found")
	assert.NoError(t, client.apiCall(context.Background(), "DELETE", "/empty", nil, &ok))
	assert.EqualError(t, client.apiCall(context.Background(), "GET", "/boom", nil, nil), "API error: 500")

	unreachable := NewClient("http://127.0.0.1:1")
	unreachable.httpClient.Timeout = time.Second
	assert.Error(t, unreachable.apiCall(context.Background(), "GET", "/api", nil, nil))
}

func TestClient_apiCallHonorsContext(t *testing.T) {
	arrived := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(arrived) })
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-arrived
		cancel()
	}()

	err := client.apiCall(ctx, "GET", "/slow", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)

	done, stop := context.WithCancel(context.Background())
	stop()
	result, err := client.handleGameState(done, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]interface{}{"session_id": "abcd"}},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCreateSessionTool(t *testing.T) {
	client := NewClient(newBackend(t).URL)

	t.Run("defaults", func(t *testing.T) {
		id := createSession(t, client, map[string]interface{}{})
		assert.Len(t, id, 4)

		text, isErr := callTool(t, client.handleGetSession, "get_session", map[string]interface{}{"session_id": id})
		require.False(t, isErr)
		assert.Contains(t, text, "Session: "+id)
		assert.Contains(t, text, engine.DefaultPlayerName(0))
		assert.Contains(t, text, "Legal actions: roll_dice")
	})

	t.Run("renamed players", func(t *testing.T) {
		id := createSession(t, client, map[string]interface{}{
			"player1_name": "Alice",
			"seed":         float64(9),
		})

		text, isErr := callTool(t, client.handleGameState, "game_state", map[string]interface{}{"session_id": id})
		require.False(t, isErr)
		assert.Contains(t, text, "Alice")
		assert.Contains(t, text, engine.DefaultPlayerName(1))
	})

	t.Run("unknown preset", func(t *testing.T) {
		text, isErr := callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{"config_id": "nope"})
		assert.True(t, isErr)
		assert.Contains(t, text, "nope")
	})
}

func TestTurnTools(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	id := createSession(t, client, nil)
	args := map[string]interface{}{"session_id": id, "intent": "testing"}

	text, isErr := callTool(t, client.action("buy"), "buy_property", args)
	require.False(t, isErr)
	assert.Contains(t, text, "Refused (not_rolled)")
	assert.Contains(t, text, service.ReasonMessage(engine.ReasonNotRolled))

	text, isErr = callTool(t, client.action("roll"), "roll_dice", args)
	require.False(t, isErr)
	assert.Contains(t, text, "✓ Done")

	if strings.Contains(text, "choose_card:") {
		text, isErr = callTool(t, client.handleChooseCard, "choose_card", map[string]interface{}{"session_id": id, "slot": float64(0)})
		require.False(t, isErr)
		assert.Contains(t, text, "✓ Done")
	}

	text, isErr = callTool(t, client.action("end-turn"), "end_turn", map[string]interface{}{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "✓ Done")
	assert.Contains(t, text, "Current player: "+engine.ChessIcons[6]+" "+engine.DefaultPlayerName(1))

	text, isErr = callTool(t, client.handleGameLog, "game_log", map[string]interface{}{"session_id": id, "limit": float64(50)})
	require.False(t, isErr)
	assert.Contains(t, text, "Game Log (Page 1/1)")
	assert.Contains(t, text, "[turn 1]")

	text, isErr = callTool(t, client.action("reset"), "reset_game", map[string]interface{}{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "游戏开始")
}

func TestToolArgumentErrors(t *testing.T) {
	client := NewClient(newBackend(t).URL)

	_, isErr := callTool(t, client.handleGameState, "game_state", map[string]interface{}{})
	assert.True(t, isErr)

	_, isErr = callTool(t, client.handleGameState, "game_state", nil)
	assert.True(t, isErr)

	text, isErr := callTool(t, client.handleGameState, "game_state", map[string]interface{}{"session_id": "zzzz"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	id := createSession(t, client, nil)
	text, isErr = callTool(t, client.handleChooseCard, "choose_card", map[string]interface{}{"session_id": id})
	assert.True(t, isErr)
	assert.Contains(t, text, "slot")

	text, isErr = callTool(t, client.handleDescribeSpace, "describe_space", map[string]interface{}{"session_id": id, "index": float64(24)})
	assert.True(t, isErr)
	assert.Contains(t, text, "out of bounds")
}

func TestDescribeSpaceTool(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	id := createSession(t, client, nil)

	text, isErr := callTool(t, client.handleDescribeSpace, "describe_space", map[string]interface{}{"session_id": id, "index": float64(4)})
	require.False(t, isErr)
	assert.Contains(t, text, "Space 4: 深圳")
	assert.Contains(t, text, "Price: 5000")
	assert.Contains(t, text, "Rent: 500")
	assert.Contains(t, text, "Upgrade cost: 2500")
	assert.Contains(t, text, "Owner: none")
	assert.Contains(t, text, "Rent by level: 500 / 1500 / 3000 / 5000")

	text, isErr = callTool(t, client.handleDescribeSpace, "describe_space", map[string]interface{}{"session_id": id, "index": float64(0)})
	require.False(t, isErr)
	assert.Contains(t, text, "Kind: start")
	assert.Contains(t, text, "Players here:")
	assert.NotContains(t, text, "Price:")
}

func TestListTools(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	first := createSession(t, client, nil)
	second := createSession(t, client, nil)

	text, isErr := callTool(t, client.handleListSessions, "list_sessions", map[string]interface{}{})
	require.False(t, isErr)
	assert.Contains(t, text, "Active Sessions (2)")
	assert.Contains(t, text, first)
	assert.Contains(t, text, second)

	text, isErr = callTool(t, client.handleListSessions, "list_sessions", map[string]interface{}{"limit": float64(1)})
	require.False(t, isErr)
	assert.Contains(t, text, "Active Sessions (1)")

	text, isErr = callTool(t, client.handleListConfigs, "list_configs", nil)
	require.False(t, isErr)
	assert.Contains(t, text, "classic (fixed seed)")
	assert.Contains(t, text, engine.DefaultPlayerName(0)+" vs "+engine.DefaultPlayerName(1))
}

func TestGameInstructions(t *testing.T) {
	text := gameInstructions()

	assert.Contains(t, text, "10000")
	assert.Contains(t, text, "• 空地 10% • 房子 30% • 旅馆 60% • 酒店 100%")
	assert.Contains(t, text, " 6 机会 (chance)")
	assert.Contains(t, text, "12 命运 (fate)")
	assert.Contains(t, text, "23 合肥 [24000, rent 2400, 空地]")
	for _, card := range engine.FateDeck().Cards() {
		assert.Contains(t, text, card.Label())
	}
}

func TestFormatActionResult(t *testing.T) {
	state := engine.NewEngineWithDefaults(engine.WithSeed(1)).State()
	state.PendingDraw = &engine.PendingDraw{
		Deck:  engine.DeckChance,
		Cards: engine.ChanceDeck().Cards()[:2],
	}

	text := formatActionResult(&service.ActionResult{
		Success:   true,
		GameState: state,
		Events:    []service.GameEvent{{Message: "玩家1掷出3点"}},
	})
	assert.Contains(t, text, "• 玩家1掷出3点")
	assert.Contains(t, text, "Pending chance draw")
	assert.Contains(t, text, "[1] 中了彩票，获得5000元")

	refused := formatActionResult(&service.ActionResult{
		Reason:  engine.ReasonMaxLevel,
		Message: service.ReasonMessage(engine.ReasonMaxLevel),
	})
	assert.Equal(t, "✗ Refused (max_level): 已经是最高等级\n", refused)
}
