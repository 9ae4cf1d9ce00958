package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for board operations
type Engine interface {
	// Board state management
	GetState() *BoardState
	Snapshot() *BoardState
	SetState(state *BoardState) error
	Reset() *BoardState
	IsSolved() bool

	// Movement operations
	Move(direction string) bool
	MoveOccupant(id OccupantID, direction string) (*MoveOutcome, error)
	BulkMove(moves []string) ([]BulkStep, BulkStop, int)
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Occupants
	OccupantAt(pos Position) (Occupant, bool)
	Movers() []Occupant

	// Configuration
	GetConfig() *LevelConfig
	SetConfig(config *LevelConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state    *BoardState
	config   *LevelConfig
	registry *Registry
	resolver *Resolver
}

// NewEngine creates a new engine with the provided level
func NewEngine(config *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{config: config}
	if err := engine.load(); err != nil {
		return nil, err
	}
	return engine, nil
}

// NewEngineWithDefaults creates a new engine with the built-in level
func NewEngineWithDefaults() *GameEngine {
	engine := &GameEngine{config: DefaultLevel()}
	if err := engine.load(); err != nil {
		panic(fmt.Sprintf("default level is invalid: %v", err))
	}
	return engine
}

// load places every occupant of the level and builds a fresh state
func (e *GameEngine) load() error {
	registry, err := BuildRegistry(e.config)
	if err != nil {
		return err
	}

	e.registry = registry
	e.resolver = NewResolver(registry, e.config)
	e.state = &BoardState{
		LevelName:         e.config.Name,
		Width:             e.config.Width,
		Height:            e.config.Height,
		Goals:             LevelGoals(e.config),
		Message:           e.config.Messages.Welcome,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	e.syncState()
	return nil
}

// syncState refreshes the occupant snapshot and derived views
func (e *GameEngine) syncState() {
	e.state.Occupants = e.registry.Snapshot()
	e.state.Solved = IsSolved(e.registry, e.state.Goals)
	e.state.Rows = RenderRows(e.registry, e.config.Width, e.config.Height, e.state.Goals)
}

// GetState returns the live board state. It changes with every move; state
// handed to other goroutines must come from Snapshot.
func (e *GameEngine) GetState() *BoardState {
	return e.state
}

// Snapshot returns a deep copy of the board state
func (e *GameEngine) Snapshot() *BoardState {
	return e.state.Clone()
}

// SetState restores a persisted board state and rebuilds the registry from it
func (e *GameEngine) SetState(state *BoardState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	registry := NewRegistry()
	for i := range state.Occupants {
		o := state.Occupants[i]
		if o.Pos.X < 1 || o.Pos.X > e.config.Width || o.Pos.Y < 1 || o.Pos.Y > e.config.Height {
			return fmt.Errorf("occupant %d at %s is outside the %dx%d board", o.ID, o.Pos, e.config.Width, e.config.Height)
		}
		if err := registry.Register(&o, o.Pos); err != nil {
			return fmt.Errorf("failed to restore occupant %d: %w", o.ID, err)
		}
	}

	e.registry = registry
	e.resolver = NewResolver(registry, e.config)
	e.state = state.Clone()
	e.state.Goals = LevelGoals(e.config)
	if e.state.MoveHistory == nil {
		e.state.MoveHistory = []MoveHistoryEntry{}
	}
	if e.state.CurrentMoves == nil {
		e.state.CurrentMoves = []MoveHistoryEntry{}
	}
	e.syncState()
	return nil
}

// Reset restores the level's starting layout
func (e *GameEngine) Reset() *BoardState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	if err := e.load(); err != nil {
		// The level was validated when it was set, so this cannot fail
		panic(fmt.Sprintf("reset: %v", err))
	}

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	return e.state
}

// IsSolved returns whether every goal is covered
func (e *GameEngine) IsSolved() bool {
	return e.state.Solved
}

// Move sends the direction to every mover on the board, each as its own request.
// It reports whether at least one mover moved.
func (e *GameEngine) Move(direction string) bool {
	dir, ok := ParseDirection(direction)
	if !ok {
		e.state.Message = fmt.Sprintf("Unknown direction %q", direction)
		e.state.AddMoveToHistory(direction, 0, false, nil)
		return false
	}

	var actor OccupantID
	if movers := e.Movers(); len(movers) > 0 {
		actor = movers[0].ID
	}
	outcome := e.resolver.MoveAll(dir)

	e.finishMove(direction, actor, outcome.Success, outcome.Moved)
	return outcome.Success
}

// MoveOccupant issues a single move request for one occupant
func (e *GameEngine) MoveOccupant(id OccupantID, direction string) (*MoveOutcome, error) {
	dir, ok := ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("invalid direction %q", direction)
	}

	outcome, err := e.resolver.RequestMove(id, dir)
	if err != nil {
		return nil, err
	}

	e.finishMove(direction, id, outcome.Success, outcome.Moved)
	return outcome, nil
}

// finishMove records the request and refreshes derived state
func (e *GameEngine) finishMove(direction string, actor OccupantID, success bool, moved []Displacement) {
	wasSolved := e.state.Solved
	e.syncState()

	switch {
	case e.state.Solved && !wasSolved:
		e.state.Message = e.messageOr(e.config.Messages.Solved, "Solved!")
	case success:
		e.state.Message = fmt.Sprintf(e.messageOr(e.config.Messages.Moved, "Moved %s"), direction)
	default:
		e.state.Message = fmt.Sprintf(e.messageOr(e.config.Messages.Blocked, "Can't move %s"), direction)
	}

	e.state.AddMoveToHistory(direction, actor, success, moved)
}

func (e *GameEngine) messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// CanMove checks on a scratch copy of the board whether any mover could move
func (e *GameEngine) CanMove(direction string) bool {
	dir, ok := ParseDirection(direction)
	if !ok {
		return false
	}

	scratch := e.registry.Clone()
	return NewResolver(scratch, e.config).MoveAll(dir).Success
}

// GetPossibleMoves returns all directions in which some mover can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// OccupantAt returns a copy of the occupant at pos
func (e *GameEngine) OccupantAt(pos Position) (Occupant, bool) {
	o, ok := e.registry.Lookup(pos)
	if !ok {
		return Occupant{}, false
	}
	return *o, true
}

// Movers returns the mover occupants in identity order
func (e *GameEngine) Movers() []Occupant {
	var movers []Occupant
	for _, o := range e.registry.Occupants() {
		if o.Kind == Mover {
			movers = append(movers, *o)
		}
	}
	return movers
}

// Registry exposes the live registry for in-process drivers such as the solver
func (e *GameEngine) Registry() *Registry {
	return e.registry
}

// GetConfig returns the current level
func (e *GameEngine) GetConfig() *LevelConfig {
	return e.config
}

// SetConfig sets a new level and resets the board
func (e *GameEngine) SetConfig(config *LevelConfig) error {
	if err := ValidateLevelConfig(config); err != nil {
		return err
	}

	prev := e.config
	e.config = config
	if err := e.load(); err != nil {
		e.config = prev
		return err
	}
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkStop names why BulkMove ended before running every move
type BulkStop string

const (
	BulkCompleted BulkStop = ""
	BulkSolved    BulkStop = "solved"
	BulkBlocked   BulkStop = "blocked"
	BulkInvalid   BulkStop = "invalid_direction"
)

// BulkStep is one request executed by BulkMove
type BulkStep struct {
	Direction string
	Actor     OccupantID
	Success   bool
	Moved     []Displacement
	Solved    bool
}

// BulkMove executes moves in sequence. It stops before a move once the board
// is solved or when a direction is unknown, and right after a blocked move.
// The returned index is the 1-based move that stopped it, 0 when all ran.
func (e *GameEngine) BulkMove(moves []string) ([]BulkStep, BulkStop, int) {
	steps := make([]BulkStep, 0, len(moves))

	for i, direction := range moves {
		if e.IsSolved() {
			return steps, BulkSolved, i + 1
		}
		if _, ok := ParseDirection(direction); !ok {
			return steps, BulkInvalid, i + 1
		}

		success := e.Move(direction)
		last := e.GetLastMove()
		steps = append(steps, BulkStep{
			Direction: direction,
			Actor:     last.Actor,
			Success:   success,
			Moved:     last.Moved,
			Solved:    e.IsSolved(),
		})
		if !success {
			return steps, BulkBlocked, i + 1
		}
	}

	return steps, BulkCompleted, 0
}

// AddMoveToHistory adds a request to the board's move history
func (s *BoardState) AddMoveToHistory(action string, actor OccupantID, success bool, moved []Displacement) {
	entry := MoveHistoryEntry{
		Action:     action,
		Actor:      actor,
		Success:    success,
		Moved:      moved,
		Timestamp:  time.Now().Unix(),
		MoveNumber: s.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	s.MoveHistory = append(s.MoveHistory, entry)
	s.TotalMoves++

	s.CurrentMoves = append(s.CurrentMoves, entry)
	s.CurrentMovesCount++
}
