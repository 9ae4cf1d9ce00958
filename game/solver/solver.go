// Package solver searches for move sequences that solve a level.
//
// The search is breadth-first over board positions, so the first solution it
// finds uses the fewest steps. Each step sends one direction to every mover,
// exactly like a key press in a live session.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

// DefaultMaxStates bounds a search when Options.MaxStates is unset
const DefaultMaxStates = 200000

var ErrNoGoals = errors.New("level has no goals")

// Options limits the search
type Options struct {
	MaxStates int // distinct positions to explore before giving up
	MaxDepth  int // longest sequence to consider, 0 for no limit
}

// Result describes the outcome of a search
type Result struct {
	Solved    bool     `json:"solved"`
	Moves     []string `json:"moves,omitempty"`
	Explored  int      `json:"explored"`
	Exhausted bool     `json:"exhausted"` // every reachable position was searched
}

type node struct {
	registry *engine.Registry
	path     []string
}

// Solve searches from the given occupant layout. A nil layout starts from the
// level's initial position.
func Solve(ctx context.Context, level *engine.LevelConfig, occupants []engine.Occupant, opts Options) (*Result, error) {
	if opts.MaxStates <= 0 {
		opts.MaxStates = DefaultMaxStates
	}

	goals := engine.LevelGoals(level)
	if len(goals) == 0 {
		return nil, ErrNoGoals
	}

	start, err := startRegistry(level, occupants)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if engine.IsSolved(start, goals) {
		result.Solved = true
		result.Exhausted = true
		return result, nil
	}

	seen := mapset.New[string]()
	seen.Put(engine.StateKey(start))
	queue := []node{{registry: start}}
	depthLimited := false

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && len(current.path) >= opts.MaxDepth {
			depthLimited = true
			continue
		}

		for _, name := range engine.Directions {
			dir, _ := engine.ParseDirection(name)
			next := current.registry.Clone()
			if !engine.NewResolver(next, level).MoveAll(dir).Success {
				continue
			}

			key := engine.StateKey(next)
			if seen.Has(key) {
				continue
			}
			seen.Put(key)
			result.Explored++

			path := make([]string, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = name

			if engine.IsSolved(next, goals) {
				result.Solved = true
				result.Moves = path
				return result, nil
			}
			if result.Explored >= opts.MaxStates {
				return result, nil
			}

			queue = append(queue, node{registry: next, path: path})
		}
	}

	result.Exhausted = !depthLimited
	return result, nil
}

// Verify replays moves on a fresh board and reports whether it ends solved
func Verify(level *engine.LevelConfig, moves []string) (bool, error) {
	e, err := engine.NewEngine(level)
	if err != nil {
		return false, err
	}
	for i, move := range moves {
		if _, ok := engine.ParseDirection(move); !ok {
			return false, fmt.Errorf("move %d: unknown direction %q", i+1, move)
		}
		e.Move(move)
	}
	return e.IsSolved(), nil
}

func startRegistry(level *engine.LevelConfig, occupants []engine.Occupant) (*engine.Registry, error) {
	if occupants == nil {
		return engine.BuildRegistry(level)
	}

	registry := engine.NewRegistry()
	for i := range occupants {
		o := occupants[i]
		if err := registry.Register(&o, o.Pos); err != nil {
			return nil, fmt.Errorf("failed to place occupant %d: %w", o.ID, err)
		}
	}
	return registry, nil
}
