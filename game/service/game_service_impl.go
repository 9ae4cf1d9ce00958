package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/solver"
)

// ErrLevelUnavailable is returned when a requested level cannot be loaded
var ErrLevelUnavailable = errors.New("level not available")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// levelID returns the identifier a level was loaded by, for consistent API responses
func (s *gameServiceImpl) levelID(displayName string) string {
	if levels, err := s.levels.ListLevels(); err == nil {
		for _, info := range levels {
			if info.Name == displayName {
				return info.LevelID
			}
		}
	}
	if displayName == "" {
		return "default"
	}
	return displayName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        s.levelID(sess.Level.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		BoardState:     sess.Engine.Snapshot(),
		Level:          sess.Level,
	}
}

// CreateSession starts a session on levelID, or on the default level when empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.levels.GetDefault()
	if levelID != "" {
		var err error
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			return nil, s.levelError(levelID, err)
		}
	}

	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if levelID != "" {
		info.LevelID = levelID
	}
	return info, nil
}

// levelError lists the available levels when the requested one is unknown
func (s *gameServiceImpl) levelError(levelID string, err error) error {
	available, listErr := s.levels.ListLevels()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("%w: '%s' (%v). Use /api/levels to list available levels", ErrLevelUnavailable, levelID, err)
	}

	ids := make([]string, 0, len(available))
	for _, info := range available {
		ids = append(ids, info.LevelID)
	}
	return fmt.Errorf("%w: '%s' (%v). Available levels: %v", ErrLevelUnavailable, levelID, err, ids)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move sends direction to every mover of a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	wasSolved := sess.Engine.IsSolved()
	success := sess.Engine.Move(direction)
	result := s.moveResult(sess, direction, 0, success, wasSolved, events)

	s.persist(sessionID, "move")
	return result, nil
}

// MoveOccupant issues a single request for one occupant of a session
func (s *gameServiceImpl) MoveOccupant(ctx context.Context, sessionID string, occupantID engine.OccupantID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	wasSolved := sess.Engine.IsSolved()
	outcome, err := sess.Engine.MoveOccupant(occupantID, direction)
	if err != nil {
		return nil, err
	}
	result := s.moveResult(sess, direction, occupantID, outcome.Success, wasSolved, nil)

	s.persist(sessionID, "move")
	return result, nil
}

// moveResult builds the response for the move just recorded in the session's history
func (s *gameServiceImpl) moveResult(sess *Session, direction string, actor engine.OccupantID, success, wasSolved bool, events []GameEvent) *MoveResult {
	state := sess.Engine.Snapshot()

	var moved []engine.Displacement
	if last := sess.Engine.GetLastMove(); last != nil {
		moved = last.Moved
		if actor == 0 {
			actor = last.Actor
		}
	}

	result := &MoveResult{
		Success:       success,
		BoardState:    state,
		Message:       state.Message,
		Events:        append(events, moveEvents(direction, actor, success, moved)...),
		Moved:         moved,
		PossibleMoves: sess.Engine.GetPossibleMoves(),
	}
	if state.Solved && !wasSolved {
		result.Events = append(result.Events, GameEvent{
			Type:      "solved",
			Message:   state.Message,
			Timestamp: time.Now(),
		})
	}
	return result
}

// BulkMove executes moves in order, stopping at the first blocked move or once solved
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	steps, stop, stoppedOn := sess.Engine.BulkMove(moves)
	state := sess.Engine.Snapshot()

	for i, step := range steps {
		result.Events = append(result.Events, moveEvents(step.Direction, step.Actor, step.Success, step.Moved)...)
		if !step.Success {
			continue
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{
			Idx:     i + 1,
			Dir:     step.Direction,
			Success: true,
			Moved:   step.Moved,
			Solved:  step.Solved,
		})
		if step.Solved {
			result.Events = append(result.Events, GameEvent{
				Type:      "solved",
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}
	}

	result.StopReasonCode = string(stop)
	result.StoppedOnMove = stoppedOn
	switch stop {
	case engine.BulkSolved:
		result.StoppedReason = "puzzle already solved"
	case engine.BulkInvalid:
		result.Success = false
		result.StoppedReason = fmt.Sprintf("move %d has unknown direction %q", stoppedOn, moves[stoppedOn-1])
	case engine.BulkBlocked:
		result.Success = false
		result.StoppedReason = fmt.Sprintf("move %d blocked: %s", stoppedOn, moves[stoppedOn-1])
	}

	result.BoardState = state
	result.Solved = state.Solved
	result.Message = state.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	s.persist(sessionID, "bulk moves")
	return result, nil
}

// Reset restores the level's starting layout for a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.Reset()
	s.persist(sessionID, "reset")
	return sess.Engine.Snapshot(), nil
}

// Solve searches for the remaining moves from the session's current position
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string, maxStates int) (*SolveResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("session not found: %w", err)
	}
	level := sess.Level
	occupants := append([]engine.Occupant(nil), sess.Engine.GetState().Occupants...)
	s.mu.RUnlock()

	found, err := solver.Solve(ctx, level, occupants, solver.Options{MaxStates: maxStates})
	if err != nil {
		return nil, err
	}

	return &SolveResult{
		SessionID: sess.ID,
		Solved:    found.Solved,
		Moves:     found.Moves,
		Explored:  found.Explored,
		Exhausted: found.Exhausted,
	}, nil
}

// GetBoardState retrieves the current board state
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// paginateHistory applies defaults (page 1, 20 per page, newest first) and slices history
func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

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

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListLevels returns available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel validates and stores a level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelID string, level *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelID, level)
}

// SaveAll writes every session through the session manager
func (s *gameServiceImpl) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.SaveAllSessions()
}

// persist saves a session after a change; failures are logged, not returned
func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after %s: %v", sessionID, after, err)
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Board reset to the starting layout",
		Timestamp: time.Now(),
	}
}

// moveEvents describes one request: a move or blocked event, plus a push event per block it displaced
func moveEvents(direction string, actor engine.OccupantID, success bool, moved []engine.Displacement) []GameEvent {
	now := time.Now()
	if !success {
		return []GameEvent{{
			Type:      "blocked",
			Message:   fmt.Sprintf("Blocked moving %s", direction),
			Timestamp: now,
			Occupant:  actor,
		}}
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s", direction),
		Timestamp: now,
		Occupant:  actor,
	}}
	for _, d := range moved {
		if d.Kind == engine.Mover {
			continue
		}
		to := d.To
		events = append(events, GameEvent{
			Type:      "push",
			Message:   fmt.Sprintf("%s block %d moved %s to %s", d.Kind, d.ID, direction, d.To),
			Timestamp: now,
			Occupant:  d.ID,
			Position:  &to,
		})
	}
	return events
}
