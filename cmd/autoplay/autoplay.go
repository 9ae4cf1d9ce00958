package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

var ErrNoSolution = errors.New("no solution found")

// Report summarises one autoplay run
type Report struct {
	SessionID string
	Moves     []string
	Explored  int
	Executed  int
	Solved    bool
}

// autoplay resets the client's session, asks the server for a solution and
// replays it in bulk-move batches, then checks that the board ended solved.
func autoplay(ctx context.Context, c *Client, maxStates int, verbose bool) (*Report, error) {
	report := &Report{SessionID: c.SessionID()}

	state, err := c.Reset(ctx)
	if err != nil {
		return report, err
	}
	if verbose && state != nil {
		log.Printf("Reset %s (%dx%d, %d goals)", state.LevelName, state.Width, state.Height, len(state.Goals))
	}

	solution, err := c.Solve(ctx, maxStates)
	if err != nil {
		return report, err
	}
	report.Moves = solution.Moves
	report.Explored = solution.Explored
	if !solution.Solved {
		if solution.Exhausted {
			return report, fmt.Errorf("%w: level is unsolvable (%d positions explored)", ErrNoSolution, solution.Explored)
		}
		return report, fmt.Errorf("%w within %d positions", ErrNoSolution, solution.Explored)
	}
	log.Printf("Solution found: %d moves (%d positions explored)", len(solution.Moves), solution.Explored)
	if len(solution.Moves) == 0 {
		report.Solved = true
		return report, nil
	}

	for start := 0; start < len(solution.Moves); start += engine.MaxBulkMoves {
		end := min(start+engine.MaxBulkMoves, len(solution.Moves))
		batch := solution.Moves[start:end]

		result, err := c.BulkMove(ctx, batch)
		if err != nil {
			return report, err
		}
		report.Executed += result.MovesExecuted
		report.Solved = result.Solved

		if verbose {
			log.Printf("Batch %d-%d: executed %d/%d", start+1, end, result.MovesExecuted, len(batch))
		}
		if result.Solved {
			break
		}
		if result.StopReasonCode != "" {
			return report, fmt.Errorf("replay stopped on move %d: %s", start+result.StoppedOnMove, result.StoppedReason)
		}
	}

	if !report.Solved {
		return report, fmt.Errorf("replayed %d moves but the board is not solved", report.Executed)
	}
	return report, nil
}
