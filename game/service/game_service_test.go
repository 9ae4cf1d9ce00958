package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, level *engine.LevelConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, level *engine.LevelConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, level)
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
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	m.saves++
	return nil
}

func (m *MockSessionManager) SaveAllSessions() error {
	m.saves += len(m.sessions)
	return nil
}

// MockLevelManager implements service.LevelManager for testing
type MockLevelManager struct {
	levels map[string]*engine.LevelConfig
}

func NewMockLevelManager() *MockLevelManager {
	starter := engine.DefaultLevel()
	starter.Name = "Starter"

	twins := engine.DefaultLevel()
	twins.Name = "Twins"
	twins.Layout = []string{
		"#######",
		"#@o.x.#",
		"#.....#",
		"#@o.x.#",
		"#######",
	}

	return &MockLevelManager{
		levels: map[string]*engine.LevelConfig{
			"starter": starter,
			"twins":   twins,
		},
	}
}

func (m *MockLevelManager) LoadLevel(name string) (*engine.LevelConfig, error) {
	level, exists := m.levels[name]
	if !exists {
		return nil, errors.New("level not found")
	}
	return level, nil
}

func (m *MockLevelManager) ListLevels() ([]*service.LevelInfo, error) {
	var result []*service.LevelInfo
	for id, level := range m.levels {
		result = append(result, &service.LevelInfo{
			Filename: id + ".json",
			LevelID:  id,
			Name:     level.Name,
			Width:    level.Width,
			Height:   level.Height,
		})
	}
	return result, nil
}

func (m *MockLevelManager) GetDefault() *engine.LevelConfig {
	return m.levels["starter"]
}

func (m *MockLevelManager) SaveLevel(name string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return err
	}
	m.levels[name] = level
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockLevelManager()), sessions
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		levelID     string
		wantLevelID string
		wantErr     bool
	}{
		{"default level", "", "starter", false},
		{"named level", "twins", "twins", false},
		{"unknown level", "nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.levelID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				if !errors.Is(err, service.ErrLevelUnavailable) {
					t.Errorf("expected ErrLevelUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if info.LevelID != tt.wantLevelID {
				t.Errorf("expected level %s, got %s", tt.wantLevelID, info.LevelID)
			}
			if info.BoardState == nil || info.Level == nil {
				t.Errorf("expected board state and level in session info")
			}
		})
	}
}

func TestGameService_GetAndDeleteSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.LevelID != "starter" {
		t.Errorf("expected level id to be resolved from the display name, got %s", got.LevelID)
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); err == nil {
		t.Errorf("expected deleted session to be gone")
	}
}

func TestGameService_Move(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	t.Run("blocked", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "left", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Success {
			t.Fatalf("expected the mover to be blocked by the wall")
		}
		if result.Events[0].Type != "blocked" {
			t.Errorf("expected a blocked event, got %s", result.Events[0].Type)
		}
	})

	t.Run("push", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "right", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected the move to succeed: %s", result.Message)
		}
		if len(result.Moved) != 2 {
			t.Errorf("expected mover and smooth block to move, got %+v", result.Moved)
		}

		var pushes int
		for _, ev := range result.Events {
			if ev.Type == "push" {
				pushes++
				if ev.Position == nil || *ev.Position != (engine.Position{X: 4, Y: 3}) {
					t.Errorf("expected push to (4,3), got %+v", ev.Position)
				}
			}
		}
		if pushes != 1 {
			t.Errorf("expected 1 push event, got %d", pushes)
		}
	})

	t.Run("solve with reset", func(t *testing.T) {
		if _, err := svc.Move(ctx, info.ID, "right", true); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if _, err := svc.Move(ctx, info.ID, "right", false); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		result, err := svc.Move(ctx, info.ID, "right", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.BoardState.Solved {
			t.Fatalf("expected the board to be solved")
		}
		last := result.Events[len(result.Events)-1]
		if last.Type != "solved" {
			t.Errorf("expected a solved event, got %s", last.Type)
		}
	})

	if sessions.saves == 0 {
		t.Errorf("expected moves to persist the session")
	}

	if _, err := svc.Move(ctx, "missing", "up", false); err == nil {
		t.Errorf("expected an error for an unknown session")
	}
}

func TestGameService_MoveOccupant(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "twins")

	sess, _ := sessions.Get(info.ID)
	movers := sess.Engine.Movers()
	if len(movers) != 2 {
		t.Fatalf("expected 2 movers, got %d", len(movers))
	}

	result, err := svc.MoveOccupant(ctx, info.ID, movers[1].ID, "right")
	if err != nil {
		t.Fatalf("MoveOccupant failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected the second mover to move")
	}
	for _, d := range result.Moved {
		if d.ID == movers[0].ID {
			t.Errorf("the first mover should not move")
		}
	}

	if _, err := svc.MoveOccupant(ctx, info.ID, 999, "right"); !errors.Is(err, engine.ErrOccupantNotFound) {
		t.Errorf("expected ErrOccupantNotFound, got %v", err)
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		moves        []string
		wantExecuted int
		wantCode     string
		wantSolved   bool
		wantSuccess  bool
	}{
		{"solves and stops", []string{"right", "right", "right", "up"}, 3, "solved", true, true},
		{"stops when blocked", []string{"up", "left", "right"}, 1, "blocked", false, false},
		{"stops on unknown direction", []string{"up", "sideways"}, 1, "invalid_direction", false, false},
		{"all executed", []string{"up", "down"}, 2, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			info, _ := svc.CreateSession(ctx, "")

			result, err := svc.BulkMove(ctx, info.ID, tt.moves, false)
			if err != nil {
				t.Fatalf("BulkMove failed: %v", err)
			}
			if result.MovesExecuted != tt.wantExecuted {
				t.Errorf("expected %d executed moves, got %d", tt.wantExecuted, result.MovesExecuted)
			}
			if result.StopReasonCode != tt.wantCode {
				t.Errorf("expected stop code %q, got %q", tt.wantCode, result.StopReasonCode)
			}
			if result.Solved != tt.wantSolved {
				t.Errorf("expected solved=%v, got %v", tt.wantSolved, result.Solved)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("expected success=%v, got %v", tt.wantSuccess, result.Success)
			}
			if len(result.Steps) != tt.wantExecuted {
				t.Errorf("expected %d steps, got %d", tt.wantExecuted, len(result.Steps))
			}
		})
	}
}

func TestGameService_BulkMoveTruncates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	moves := make([]string, 0, engine.MaxBulkMoves+10)
	for len(moves) < engine.MaxBulkMoves+10 {
		moves = append(moves, "up", "down")
	}

	result, err := svc.BulkMove(ctx, info.ID, moves, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkMoves {
		t.Errorf("expected truncation at %d, got %+v", engine.MaxBulkMoves, result.Limit)
	}
	if result.MovesExecuted != engine.MaxBulkMoves {
		t.Errorf("expected %d executed moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
	}
	if result.RequestedMoves != len(moves) {
		t.Errorf("expected requested moves %d, got %d", len(moves), result.RequestedMoves)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	for i := 0; i < 5; i++ {
		dir := "up"
		if i%2 == 1 {
			dir = "down"
		}
		if _, err := svc.Move(ctx, info.ID, dir, false); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantCount int
		wantFirst int
		wantNext  bool
	}{
		{"defaults newest first", service.HistoryOptions{}, 5, 5, false},
		{"ascending page 1", service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 2, 1, true},
		{"descending page 2", service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"}, 2, 3, true},
		{"last page", service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"}, 1, 5, false},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if history.TotalMoves != 5 {
				t.Errorf("expected 5 total moves, got %d", history.TotalMoves)
			}
			if len(history.Moves) != tt.wantCount {
				t.Fatalf("expected %d moves, got %d", tt.wantCount, len(history.Moves))
			}
			if tt.wantCount > 0 && history.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("expected first move number %d, got %d", tt.wantFirst, history.Moves[0].MoveNumber)
			}
			if history.HasNext != tt.wantNext {
				t.Errorf("expected has_next=%v, got %v", tt.wantNext, history.HasNext)
			}
		})
	}
}

func TestGameService_ListSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, ""); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(sessions))
	}
}

func TestGameService_Reset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")
	initialRows := append([]string(nil), info.BoardState.Rows...)

	if _, err := svc.Move(ctx, info.ID, "right", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	for i := range initialRows {
		if state.Rows[i] != initialRows[i] {
			t.Errorf("row %d = %q after reset, want %q", i+1, state.Rows[i], initialRows[i])
		}
	}
	if state.TotalMoves != 1 || state.CurrentMovesCount != 0 {
		t.Errorf("expected cumulative history kept and current moves cleared, got %d/%d", state.TotalMoves, state.CurrentMovesCount)
	}
}

func TestGameService_Solve(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	result, err := svc.Solve(ctx, info.ID, 0)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved || len(result.Moves) != 3 {
		t.Fatalf("expected a 3 move solution, got %+v", result)
	}

	bulk, err := svc.BulkMove(ctx, info.ID, result.Moves, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if !bulk.Solved {
		t.Errorf("replaying the solution did not solve the board")
	}

	if _, err := svc.Solve(ctx, "missing", 0); err == nil {
		t.Errorf("expected an error for an unknown session")
	}
}

func TestGameService_Levels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	levels, err := svc.ListLevels(ctx)
	if err != nil {
		t.Fatalf("ListLevels failed: %v", err)
	}
	if len(levels) != 2 {
		t.Errorf("expected 2 levels, got %d", len(levels))
	}

	custom := engine.DefaultLevel()
	custom.Name = "Custom"
	if err := svc.SaveLevel(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	loaded, err := svc.LoadLevel(ctx, "custom")
	if err != nil || loaded.Name != "Custom" {
		t.Errorf("expected to load the saved level, got %v (%v)", loaded, err)
	}

	invalid := engine.DefaultLevel()
	invalid.Width = 0
	if err := svc.SaveLevel(ctx, "invalid", invalid); err == nil {
		t.Errorf("expected an invalid level to be rejected")
	}
}

func TestGameService_ConcurrentMoveAndRead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			dir := "up"
			if i%2 == 1 {
				dir = "down"
			}
			result, err := svc.Move(ctx, info.ID, dir, false)
			if err != nil {
				t.Errorf("Move failed: %v", err)
				return
			}
			if _, err := json.Marshal(result); err != nil {
				t.Errorf("failed to marshal move result: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			state, err := svc.GetBoardState(ctx, info.ID)
			if err != nil {
				t.Errorf("GetBoardState failed: %v", err)
				return
			}
			if _, err := json.Marshal(state); err != nil {
				t.Errorf("failed to marshal state: %v", err)
				return
			}
			if _, err := svc.ListSessions(ctx); err != nil {
				t.Errorf("ListSessions failed: %v", err)
				return
			}
		}
	}()

	wg.Wait()

	state, err := svc.GetBoardState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetBoardState failed: %v", err)
	}
	if state.TotalMoves != rounds {
		t.Errorf("expected %d moves, got %d", rounds, state.TotalMoves)
	}
}

func TestGameService_ReturnedStateIsStable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	before, err := svc.GetBoardState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetBoardState failed: %v", err)
	}
	rows := append([]string(nil), before.Rows...)

	if _, err := svc.Move(ctx, info.ID, "right", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	reset, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := svc.Move(ctx, info.ID, "up", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if before.TotalMoves != 0 || len(before.MoveHistory) != 0 {
		t.Errorf("earlier state picked up later moves: %d", before.TotalMoves)
	}
	if fmt.Sprint(before.Rows) != fmt.Sprint(rows) {
		t.Errorf("earlier rows changed: %v", before.Rows)
	}
	if reset.TotalMoves != 1 || reset.CurrentMovesCount != 0 {
		t.Errorf("reset state changed after a later move: total %d current %d", reset.TotalMoves, reset.CurrentMovesCount)
	}
}

func TestGameService_SaveAll(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, ""); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	if err := svc.SaveAll(ctx); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if sessions.saves != 3 {
		t.Errorf("expected 3 saves, got %d", sessions.saves)
	}
}
