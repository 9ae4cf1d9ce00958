// Command analyze prints quick, human-readable heuristics about the levels in
// the project's levels directory. It summarizes dimensions and occupant
// counts, the distance from each goal to its nearest block, and the result
// of a bounded breadth-first solve.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/gridpush/game/config"
	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/solver"
)

// solveTimeout bounds the search for a single level
const solveTimeout = 10 * time.Second

// Analysis is the summary of one level
type Analysis struct {
	Name      string
	Width     int
	Height    int
	Counts    map[engine.Kind]int
	Goals     []engine.Position
	GoalReach map[engine.Position]int // Manhattan distance to the nearest block, -1 when there are none
	Solve     *solver.Result
	SolveErr  error
}

func main() {
	levelsDir := "levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	levels, err := config.NewManager(levelsDir)
	if err != nil {
		fmt.Printf("Error opening levels: %v\n", err)
		os.Exit(1)
	}

	infos, err := levels.ListLevels()
	if err != nil {
		fmt.Printf("Error listing levels: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)
		level, err := levels.LoadLevel(info.LevelID)
		if err != nil {
			fmt.Printf("Error loading level: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analyzeLevel(context.Background(), level, solver.Options{}))
	}
}

// analyzeLevel gathers the counts and runs the solver on the starting layout
func analyzeLevel(ctx context.Context, level *engine.LevelConfig, opts solver.Options) *Analysis {
	a := &Analysis{
		Name:      level.Name,
		Width:     level.Width,
		Height:    level.Height,
		Counts:    make(map[engine.Kind]int),
		Goals:     engine.LevelGoals(level),
		GoalReach: make(map[engine.Position]int),
	}

	registry, err := engine.BuildRegistry(level)
	if err != nil {
		a.SolveErr = err
		return a
	}

	var blocks []engine.Position
	for _, o := range registry.Occupants() {
		a.Counts[o.Kind]++
		if engine.IsBlock(o.Kind) {
			blocks = append(blocks, o.Pos)
		}
	}

	for _, goal := range a.Goals {
		nearest := -1
		for _, b := range blocks {
			if d := engine.ManhattanDistance(goal, b); nearest < 0 || d < nearest {
				nearest = d
			}
		}
		a.GoalReach[goal] = nearest
	}

	ctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()
	a.Solve, a.SolveErr = solver.Solve(ctx, level, nil, opts)

	return a
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Movers: %d\n", a.Counts[engine.Mover])
	fmt.Fprintf(w, "Blocks: smooth %d, sticky %d, clingy %d\n",
		a.Counts[engine.Smooth], a.Counts[engine.Sticky], a.Counts[engine.Clingy])
	fmt.Fprintf(w, "Walls: %d\n", a.Counts[engine.Wall])
	fmt.Fprintf(w, "Goals: %d\n", len(a.Goals))

	for _, goal := range a.Goals {
		if d := a.GoalReach[goal]; d >= 0 {
			fmt.Fprintf(w, "   Goal %s: nearest block %d steps away\n", goal, d)
		} else {
			fmt.Fprintf(w, "   Goal %s: no block on the board\n", goal)
		}
	}

	switch {
	case a.SolveErr != nil:
		fmt.Fprintf(w, "⚠️  Solver error: %v\n", a.SolveErr)
	case a.Solve.Solved && len(a.Solve.Moves) == 0:
		fmt.Fprintf(w, "✅ Already solved at start (explored %d positions)\n", a.Solve.Explored)
	case a.Solve.Solved:
		fmt.Fprintf(w, "✅ Solvable in %d moves: %s (explored %d positions)\n",
			len(a.Solve.Moves), strings.Join(a.Solve.Moves, ", "), a.Solve.Explored)
	case a.Solve.Exhausted:
		fmt.Fprintf(w, "⚠️  CRITICAL: level is unsolvable (all %d positions explored)\n", a.Solve.Explored)
	default:
		fmt.Fprintf(w, "⚠️  WARNING: no solution within %d positions\n", a.Solve.Explored)
	}
}
