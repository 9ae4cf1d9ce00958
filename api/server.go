package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/gridpush/game/config"
	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/service"
	"github.com/wricardo/mcp-training/gridpush/game/session"
	"github.com/wricardo/mcp-training/gridpush/transport/websocket"
)

// StaticDir is served for every path the API does not claim
var StaticDir = "./static/"

var levelNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.(json|yaml|yml))?$`)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. When hub is not nil the server also
// handles moves sent by WebSocket clients.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	if hub != nil {
		hub.SetMessageHandler(s.handleClientMessage)
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
	// Must be registered before the {id} pattern
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Board operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetBoardState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/occupants/{oid:[0-9]+}/move", s.handleMoveOccupant).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/solve", s.handleSolve).Methods("POST")

	// Levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels", s.handleCreateLevel).Methods("POST")
	api.HandleFunc("/levels/{name}", s.handleGetLevel).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(StaticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, engine.ErrOccupantNotFound),
		errors.Is(err, service.ErrLevelUnavailable),
		errors.Is(err, config.ErrLevelNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, config.ErrInvalidLevel):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(sessionID string, state *engine.BoardState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LevelID string `json:"level_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateSession(r.Context(), req.LevelID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	log.Printf("[SESSION] created %s level=%s", info.ID, info.LevelID)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Board Operation Handlers

func (s *Server) handleGetBoardState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetBoardState(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
		Reset     bool   `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, ok := engine.ParseDirection(req.Direction); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid direction %q. Use up, down, left or right", req.Direction))
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction, req.Reset)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.BoardState)
	logMove(sessionID, req.Direction, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMoveOccupant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	oid, err := strconv.Atoi(vars["oid"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid occupant id")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, ok := engine.ParseDirection(req.Direction); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid direction %q. Use up, down, left or right", req.Direction))
		return
	}

	result, err := s.service.MoveOccupant(r.Context(), sessionID, engine.OccupantID(oid), req.Direction)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.BoardState)
	logMove(sessionID, req.Direction, result)

	respondJSON(w, http.StatusOK, result)
}

// logMove writes a compact line per move request
func logMove(sessionID, direction string, result *service.MoveResult) {
	status := "FAIL"
	if result.Success {
		status = "OK"
	}

	moved := make([]string, 0, len(result.Moved))
	for _, d := range result.Moved {
		moved = append(moved, fmt.Sprintf("%d:%s->%s", d.ID, d.From, d.To))
	}
	log.Printf("[MOVE] session=%s %s moved=[%s] solved=%t status=%s",
		sessionID, direction, strings.Join(moved, " "), result.BoardState.Solved, status)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
		Reset bool     `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Moves) == 0 && !req.Reset {
		respondError(w, http.StatusBadRequest, "moves must not be empty")
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Moves, req.Reset)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.BoardState)

	stop := result.StopReasonCode
	if stop == "" {
		stop = "none"
	}
	log.Printf("[BULK] session=%s exec=%d/%d stop=%s solved=%t",
		sessionID, result.MovesExecuted, result.RequestedMoves, stop, result.Solved)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Board reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
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
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		MaxStates int `json:"max_states,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.MaxStates < 0 {
		respondError(w, http.StatusBadRequest, "max_states must not be negative")
		return
	}

	result, err := s.service.Solve(r.Context(), sessionID, req.MaxStates)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	log.Printf("[SOLVE] session=%s solved=%t moves=%d explored=%d",
		sessionID, result.Solved, len(result.Moves), result.Explored)
	respondJSON(w, http.StatusOK, result)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, levels)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !levelNamePattern.MatchString(name) {
		respondError(w, http.StatusBadRequest, "Invalid level name")
		return
	}

	level, err := s.service.LoadLevel(r.Context(), name)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, level)
}

func (s *Server) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LevelID string `json:"level_id"`
		engine.LevelConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := req.LevelID
	if id == "" {
		id = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "-"))
	}
	if id == "" {
		respondError(w, http.StatusBadRequest, "Level name is required")
		return
	}
	if !levelNamePattern.MatchString(id) {
		respondError(w, http.StatusBadRequest, "Invalid level id")
		return
	}

	level := req.LevelConfig
	if err := s.service.SaveLevel(r.Context(), id, &level); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save level: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":  "Level saved successfully",
		"level_id": id,
	})
}

// Unified Sessions Handler

func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		for _, id := range strings.Split(sessionIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if info, err := s.service.GetSession(r.Context(), id); err == nil {
				sessions = append(sessions, info)
			}
		}
	} else {
		all, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		levelID := query.Get("levelId")
		for _, info := range all {
			if levelID == "" || info.LevelID == levelID {
				sessions = append(sessions, info)
			}
		}
	}

	levelID := ""
	totalGoals := 0
	if len(sessions) > 0 {
		levelID = sessions[0].LevelID
		if sessions[0].BoardState != nil {
			totalGoals = len(sessions[0].BoardState.Goals)
		}
	}

	entries := make([]map[string]any, 0, len(sessions))
	for _, info := range sessions {
		entries = append(entries, map[string]any{
			"session_id":    info.ID,
			"level_id":      info.LevelID,
			"board_state":   info.BoardState,
			"created_at":    info.CreatedAt,
			"last_accessed": info.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"level_id":    levelID,
		"total_goals": totalGoals,
		"sessions":    entries,
	})
}

// WebSocket Handlers

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// handleClientMessage applies a request sent over a session's WebSocket
func (s *Server) handleClientMessage(sessionID string, msg websocket.ClientMessage) {
	ctx := context.Background()

	switch msg.Action {
	case "move":
		if _, ok := engine.ParseDirection(msg.Direction); !ok {
			s.hub.BroadcastEvent(sessionID, "error", fmt.Sprintf("invalid direction %q", msg.Direction))
			return
		}
		result, err := s.service.Move(ctx, sessionID, msg.Direction, false)
		if err != nil {
			s.hub.BroadcastEvent(sessionID, "error", err.Error())
			return
		}
		logMove(sessionID, msg.Direction, result)
		s.broadcast(sessionID, result.BoardState)

	case "reset":
		state, err := s.service.Reset(ctx, sessionID)
		if err != nil {
			s.hub.BroadcastEvent(sessionID, "error", err.Error())
			return
		}
		s.broadcast(sessionID, state)

	default:
		s.hub.BroadcastEvent(sessionID, "error", fmt.Sprintf("unknown action %q", msg.Action))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
