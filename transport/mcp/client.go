package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/dafuweng/game/engine"
	"github.com/wricardo/dafuweng/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Dafuweng",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Dafuweng (大富翁) - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players take turns around a 24-space loop, buying and upgrading
properties and collecting rent. Finish with the highest net worth.

TURN FLOW:
roll_dice -> (choose_card if a chance/fate draw is pending) -> optional
buy_property / upgrade_property -> end_turn

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current board, players and legal actions
- roll_dice: Roll the die for the current player
- choose_card: Pick one of the offered chance/fate cards
- buy_property: Buy the vacant property under the current player
- upgrade_property: Upgrade the current player's own property
- end_turn: Hand the turn to the other player
- reset_game: Start the game over
- game_log: View the game log
- list_configs: List available setup presets
- game_instructions: Get the full rules
- describe_space: Get details about one board space

NOTE: The optional 'intent' parameter on turn tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var intentProperty = map[string]interface{}{
	"type":        "string",
	"description": "Brief explanation of the intent behind this action (serves as a rubber duck to help explain your reasoning)",
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a setup preset, optionally renaming players or fixing the seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"player1_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the first player (optional)",
				},
				"player2_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the second player (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Nonzero seed for reproducible dice and card draws (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List active game sessions, most recently used first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of sessions to list (optional)",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, both players and the legal actions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(nil),
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the current player, move and resolve the landing space",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(map[string]interface{}{"intent": intentProperty}),
			Required:   []string{"session_id"},
		},
	}, c.action("roll"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "choose_card",
		Description: "Pick one of the cards offered by a chance or fate draw",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: sessionProperties(map[string]interface{}{
				"slot": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based index of the offered card",
				},
				"intent": intentProperty,
			}),
			Required: []string{"session_id", "slot"},
		},
	}, c.handleChooseCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_property",
		Description: "Buy the vacant property the current player stands on",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(map[string]interface{}{"intent": intentProperty}),
			Required:   []string{"session_id"},
		},
	}, c.action("buy"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "upgrade_property",
		Description: "Upgrade the current player's own property by one level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(map[string]interface{}{"intent": intentProperty}),
			Required:   []string{"session_id"},
		},
	}, c.action("upgrade"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current player's turn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(nil),
			Required:   []string{"session_id"},
		},
	}, c.action("end-turn"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state; the log is kept",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionProperties(nil),
			Required:   []string{"session_id"},
		},
	}, c.action("reset"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_log",
		Description: "Get the game log with pagination, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: sessionProperties(map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
			}),
			Required: []string{"session_id"},
		},
	}, c.handleGameLog)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available setup presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules, board layout and card decks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_space",
		Description: "Describe one board space: kind, owner, level, rent and who stands there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: sessionProperties(map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Space index, 0-%d", engine.BoardLength-1),
				},
			}),
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribeSpace)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a REST call. A 409 carries a refused move and is decoded
// into result like a success.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusConflict {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func sessionArg(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return url.PathEscape(sessionID), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var body service.CreateSessionRequest
	body.ConfigID, _ = args["config_id"].(string)
	if seed, ok := intArg(args, "seed"); ok {
		body.Seed = int64(seed)
	}

	p1, _ := args["player1_name"].(string)
	p2, _ := args["player2_name"].(string)
	if p1 != "" || p2 != "" {
		var preset engine.GameConfig
		path := "/api/configs/" + url.PathEscape(body.ConfigID)
		if body.ConfigID == "" {
			path = "/api/configs/classic"
		}
		if err := c.apiCall(ctx, "GET", path, nil, &preset); err != nil || len(preset.Players) != engine.PlayerCount {
			preset = *engine.DefaultGameConfig()
		}
		body.Players = append([]engine.PlayerSetup{}, preset.Players...)
		if p1 != "" {
			body.Players[0].Name = p1
		}
		if p2 != "" {
			body.Players[1].Name = p2
		}
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions?sort=accessed&order=desc"
	if limit, ok := intArg(arguments(request), "limit"); ok && limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	var sessions []service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &sessions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active Sessions (%d):\n\n", len(sessions)))
	for _, s := range sessions {
		turn := 0
		if s.GameState != nil {
			turn = s.GameState.TurnNumber
		}
		b.WriteString(fmt.Sprintf("- %s (Config: %s, Turn: %d, Created: %s)\n",
			s.ID, s.ConfigName, turn, s.CreatedAt.Format("15:04:05")))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// action builds a handler for a body-less turn operation
func (c *Client) action(endpoint string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, errResult := sessionArg(arguments(request))
		if errResult != nil {
			return errResult, nil
		}
		return c.postAction(ctx, sessionID, endpoint, nil)
	}
}

func (c *Client) handleChooseCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}
	slot, ok := intArg(args, "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}

	return c.postAction(ctx, sessionID, "choose", map[string]int{"slot": slot})
}

func (c *Client) postAction(ctx context.Context, sessionID, endpoint string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, endpoint), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleGameLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok && page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok && limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := "/api/sessions/" + sessionID + "/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		seeded := ""
		if config.Seeded {
			seeded = " (fixed seed)"
		}
		b.WriteString(fmt.Sprintf("• %s%s\n  %s\n  Players: %s\n\n",
			config.ConfigID, seeded, config.Description, strings.Join(config.Players, " vs ")))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions()), nil
}

func gameInstructions() string {
	var b strings.Builder
	b.WriteString(`🎲 Dafuweng (大富翁) - Complete Instructions

GAME OBJECTIVE:
Two players share one screen and take turns. Buy properties, upgrade them
and collect rent. There is no bankruptcy: cash may go negative.

`)
	b.WriteString(fmt.Sprintf(`RULES:
• Each player starts with %d cash on the start space (index 0)
• Roll one %d-sided die and move forward; the board has %d spaces and wraps
• Passing or landing on start from elsewhere pays %d
• Landing on a vacant property lets you buy it at its base price
• Landing on your own property lets you upgrade it (cost: half the base price, max level %d)
• Landing on the other player's property pays them its rent
• Chance and fate spaces offer %d cards; pick one with choose_card
• You must pick a card before ending the turn

`, engine.StartingCash, engine.DiceFaces, engine.BoardLength, engine.PassStartBonus, engine.MaxLevel, engine.CardsPerDraw))

	b.WriteString("RENT BY LEVEL (percent of base price):\n")
	levels := engine.RentTable(100)
	b.WriteString(fmt.Sprintf("• 空地 %d%% • 房子 %d%% • 旅馆 %d%% • 酒店 %d%%\n\n", levels[0], levels[1], levels[2], levels[3]))

	b.WriteString("BOARD:\n")
	for _, space := range engine.NewBoard().Spaces() {
		b.WriteString("• " + formatSpaceLine(space, nil) + "\n")
	}

	chance, fate := engine.ChanceDeck(), engine.FateDeck()
	b.WriteString("\nCHANCE CARDS:\n")
	for _, card := range chance.Cards() {
		b.WriteString("• " + card.Label() + "\n")
	}
	b.WriteString("\nFATE CARDS:\n")
	for _, card := range fate.Cards() {
		b.WriteString("• " + card.Label() + "\n")
	}

	b.WriteString(`
TURN FLOW:
1. roll_dice
2. choose_card when the state shows a pending draw
3. buy_property or upgrade_property if the legal actions allow it
4. end_turn

TIPS:
• game_state lists the legal actions; refused moves come back with a reason
• describe_space shows rent and owner before you commit
• game_log shows what happened, newest first
`)
	return b.String()
}

func (c *Client) handleDescribeSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := sessionArg(args)
	if errResult != nil {
		return errResult, nil
	}
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if index < 0 || index >= len(state.Board) {
		return mcp.NewToolResultError(fmt.Sprintf("Space %d is out of bounds. The board has %d spaces (0-%d)",
			index, len(state.Board), len(state.Board)-1)), nil
	}

	return mcp.NewToolResultText(describeSpace(&state, index)), nil
}

func describeSpace(state *engine.GameState, index int) string {
	space := state.Board[index]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Space %d: %s\n", space.Index, space.Name))
	b.WriteString(fmt.Sprintf("Kind: %s\n", space.Kind))

	if prop, ok := space.AsProperty(); ok {
		b.WriteString(fmt.Sprintf("Price: %d\n", prop.BasePrice))
		b.WriteString(fmt.Sprintf("Level: %d (%s)\n", prop.Level, prop.LevelName()))
		b.WriteString(fmt.Sprintf("Rent: %d\n", prop.Rent))
		b.WriteString(fmt.Sprintf("Upgrade cost: %d\n", prop.UpgradeCost))
		if prop.IsVacant() {
			b.WriteString("Owner: none (for sale)\n")
		} else if owner, ok := engine.FindPlayer(state, prop.Owner); ok {
			b.WriteString(fmt.Sprintf("Owner: %s %s\n", owner.Icon, owner.Name))
		}
		rents := engine.RentTable(prop.BasePrice)
		b.WriteString(fmt.Sprintf("Rent by level: %d / %d / %d / %d\n", rents[0], rents[1], rents[2], rents[3]))
	}

	var here []string
	for _, p := range state.Players {
		if p.Position == index {
			here = append(here, p.Icon+" "+p.Name)
		}
	}
	if len(here) > 0 {
		b.WriteString("Players here: " + strings.Join(here, ", ") + "\n")
	}

	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatSpaceLine(space engine.Space, state *engine.GameState) string {
	line := fmt.Sprintf("%2d %s", space.Index, space.Name)
	if prop, ok := space.AsProperty(); ok {
		line += fmt.Sprintf(" [%d, rent %d, %s]", prop.BasePrice, prop.Rent, prop.LevelName())
		if state != nil && !prop.IsVacant() {
			if owner, ok := engine.FindPlayer(state, prop.Owner); ok {
				line += " owner " + owner.Icon
			}
		}
	} else {
		line += fmt.Sprintf(" (%s)", space.Kind)
	}
	if state != nil {
		for _, p := range state.Players {
			if p.Position == space.Index {
				line += " <- " + p.Icon
			}
		}
	}
	return line
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Turn %d | Phase: %s | Total cash: %d\n\n", state.TurnNumber, state.Phase, state.TotalCash))

	for i, p := range state.Players {
		marker := "  "
		if i == state.CurrentPlayerIndex {
			marker = "▶ "
		}
		freeRent := ""
		if p.HasFreeRent {
			freeRent = " | free rent"
		}
		result.WriteString(fmt.Sprintf("%s%s %s | Cash: %d | Position: %d | Properties: %d | Net worth: %d%s\n",
			marker, p.Icon, p.Name, p.Cash, p.Position, len(p.OwnedSpaces), engine.NetWorth(state, p.ID), freeRent))
	}

	result.WriteString("\nBoard:\n")
	for _, space := range state.Board {
		result.WriteString(formatSpaceLine(space, state) + "\n")
	}

	if state.PendingDraw != nil {
		result.WriteString(fmt.Sprintf("\nPending %s draw, pick one with choose_card:\n", state.PendingDraw.Deck))
		for i, card := range state.PendingDraw.Cards {
			result.WriteString(fmt.Sprintf("  [%d] %s\n", i, card.Label()))
		}
	}

	result.WriteString("\nLegal actions: " + formatLegal(state.Legal))
	return result.String()
}

func formatLegal(legal engine.LegalActions) string {
	var actions []string
	if legal.Roll {
		actions = append(actions, "roll_dice")
	}
	if legal.ChooseCard {
		actions = append(actions, "choose_card")
	}
	if legal.Buy {
		actions = append(actions, "buy_property")
	}
	if legal.Upgrade {
		actions = append(actions, "upgrade_property")
	}
	if legal.EndTurn {
		actions = append(actions, "end_turn")
	}
	if len(actions) == 0 {
		return "none"
	}
	return strings.Join(actions, ", ")
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	if !result.Success {
		b.WriteString(fmt.Sprintf("✗ Refused (%s): %s\n", result.Reason, result.Message))
	} else {
		b.WriteString("✓ Done\n")
		for _, ev := range result.Events {
			b.WriteString("• " + ev.Message + "\n")
		}
	}

	if result.GameState != nil {
		if pending := result.GameState.PendingDraw; pending != nil {
			b.WriteString(fmt.Sprintf("\nPending %s draw, pick one with choose_card:\n", pending.Deck))
			for i, card := range pending.Cards {
				b.WriteString(fmt.Sprintf("  [%d] %s\n", i, card.Label()))
			}
		}
		current := result.GameState.Players[result.GameState.CurrentPlayerIndex]
		b.WriteString(fmt.Sprintf("\nCurrent player: %s %s (cash %d, position %d)\n",
			current.Icon, current.Name, current.Cash, current.Position))
		b.WriteString("Legal actions: " + formatLegal(result.GameState.Legal))
	}

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Game Log (Page %d/%d) | Total entries: %d\n\n",
		history.Page, history.TotalPages, history.TotalEntries))

	if len(history.Entries) == 0 {
		b.WriteString("(no entries)")
		return b.String()
	}

	for _, entry := range history.Entries {
		b.WriteString(fmt.Sprintf("#%d [turn %d] %s\n", entry.Seq, entry.Turn, entry.Message))
	}

	return b.String()
}
