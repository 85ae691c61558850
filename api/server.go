package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/wricardo/dafuweng/game/engine"
	"github.com/wricardo/dafuweng/game/service"
	"github.com/wricardo/dafuweng/logging"
	"github.com/wricardo/dafuweng/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  zerolog.Logger
}

// NewServer creates a new API server. hub may be nil when no live updates
// are wanted.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logging.Component("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Turn operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/roll", s.handleRoll).Methods("POST")
	api.HandleFunc("/sessions/{id}/buy", s.handleBuy).Methods("POST")
	api.HandleFunc("/sessions/{id}/upgrade", s.handleUpgrade).Methods("POST")
	api.HandleFunc("/sessions/{id}/choose", s.handleChooseCard).Methods("POST")
	api.HandleFunc("/sessions/{id}/end-turn", s.handleEndTurn).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/reload", s.handleReloadConfigs).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.router.ServeHTTP(w, r)
	s.logger.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Dur("took", time.Since(start)).
		Msg("request")
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidConfig):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes an optional JSON body; an empty body is not an error
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := service.ListOptions{
		SortBy: query.Get("sort"),
		Order:  query.Get("order"),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}

	sessions, err := s.service.ListSessions(r.Context(), opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Game Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

type actionFunc func(ctx context.Context, sessionID string) (*service.ActionResult, error)

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.Roll)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.Buy)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.Upgrade)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.EndTurn)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, s.service.Reset)
}

func (s *Server) handleChooseCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot *int `json:"slot"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Slot == nil {
		respondError(w, http.StatusBadRequest, "slot is required")
		return
	}

	slot := *req.Slot
	s.runAction(w, r, func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
		return s.service.ChooseCard(ctx, sessionID, slot)
	})
}

// runAction executes a turn operation, pushes its outcome to WebSocket
// watchers and writes the result. Refused moves answer 409 with the result.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, action actionFunc) {
	sessionID := mux.Vars(r)["id"]

	result, err := action(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if !result.Success {
		respondJSON(w, http.StatusConflict, result)
		return
	}

	s.broadcast(sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

// broadcast sends each outcome of a successful action, then the new state
func (s *Server) broadcast(sessionID string, result *service.ActionResult) {
	if s.hub == nil {
		return
	}

	if result.Roll != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventRoll, result.Roll)
	}
	if result.Landing != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventLanding, result.Landing)
	}
	if result.Event != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventCard, result.Event)
	}
	if result.Buy != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventBuy, result.Buy)
	}
	if result.Upgrade != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventUpgrade, result.Upgrade)
	}
	if result.EndTurn != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventEndTurn, result.EndTurn)
	}
	if isReset(result) {
		s.hub.BroadcastEvent(sessionID, websocket.EventReset, result.Message)
	}

	s.hub.BroadcastToSession(sessionID, result.GameState)
}

func isReset(result *service.ActionResult) bool {
	for _, ev := range result.Events {
		if ev.Type == string(engine.LogReset) {
			return true
		}
	}
	return false
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	query := r.URL.Query()

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := strings.ToLower(query.Get("order")); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Config Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := mux.Vars(r)["name"]

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var gameConfig engine.GameConfig
	if err := json.NewDecoder(r.Body).Decode(&gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The preset is stored under ?id= when given, otherwise under its name
	configID := r.URL.Query().Get("id")
	if configID == "" {
		configID = gameConfig.Name
	}
	if configID == "" {
		respondError(w, http.StatusBadRequest, "config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), configID, &gameConfig); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "configuration saved",
		"config_id": configID,
	})
}

func (s *Server) handleReloadConfigs(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ReloadConfigs(r.Context()); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "configurations reloaded"})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session query parameter is required")
		return
	}
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates are disabled")
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
