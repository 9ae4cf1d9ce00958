package service

import (
	"time"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	BoardState     *engine.BoardState  `json:"board_state"`
	Level          *engine.LevelConfig `json:"level"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success       bool                  `json:"success"`
	BoardState    *engine.BoardState    `json:"board_state"`
	Message       string                `json:"message"`
	Events        []GameEvent           `json:"events,omitempty"`
	Moved         []engine.Displacement `json:"moved,omitempty"`
	PossibleMoves []string              `json:"possible_moves,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int                `json:"moves_executed"`
	RequestedMoves int                `json:"requested_moves"`
	Success        bool               `json:"success"`
	BoardState     *engine.BoardState `json:"board_state"`
	Events         []GameEvent        `json:"events"`
	StoppedReason  string             `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string             `json:"stop_reason_code,omitempty"` // Machine-friendly code: blocked|invalid_direction|solved
	StoppedOnMove  int                `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool               `json:"truncated,omitempty"`
	Limit          int                `json:"limit,omitempty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	Solved        bool     `json:"solved"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx     int                   `json:"idx"`
	Dir     string                `json:"dir"`
	Success bool                  `json:"success"`
	Moved   []engine.Displacement `json:"moved,omitempty"`
	Solved  bool                  `json:"solved,omitempty"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string            `json:"type"` // "move", "push", "blocked", "solved", "reset"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Occupant  engine.OccupantID `json:"occupant,omitempty"`
	Position  *engine.Position  `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelInfo provides information about a level file
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Goals       int    `json:"goals"`
	Movers      int    `json:"movers"`
}

// SolveResult reports a search for the remaining moves of a session
type SolveResult struct {
	SessionID string   `json:"session_id"`
	Solved    bool     `json:"solved"`
	Moves     []string `json:"moves,omitempty"`
	Explored  int      `json:"explored"`
	Exhausted bool     `json:"exhausted"`
}
