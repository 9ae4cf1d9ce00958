package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/solver"
)

func TestAnalyzeLevel_DefaultLevel(t *testing.T) {
	a := analyzeLevel(context.Background(), engine.DefaultLevel(), solver.Options{})

	if a.Name != "starter" || a.Width != 7 || a.Height != 5 {
		t.Errorf("unexpected header: %s %dx%d", a.Name, a.Width, a.Height)
	}

	wantCounts := map[engine.Kind]int{
		engine.Wall:   20,
		engine.Mover:  1,
		engine.Smooth: 1,
		engine.Sticky: 1,
		engine.Clingy: 1,
	}
	for kind, want := range wantCounts {
		if got := a.Counts[kind]; got != want {
			t.Errorf("Counts[%s] = %d, want %d", kind, got, want)
		}
	}

	goal := engine.Position{X: 6, Y: 3}
	if len(a.Goals) != 1 || a.Goals[0] != goal {
		t.Fatalf("Goals = %v, want [%s]", a.Goals, goal)
	}
	// The clingy block at (5,4) is the closest
	if got := a.GoalReach[goal]; got != 2 {
		t.Errorf("GoalReach = %d, want 2", got)
	}

	if a.SolveErr != nil {
		t.Fatalf("unexpected solver error: %v", a.SolveErr)
	}
	if !a.Solve.Solved || len(a.Solve.Moves) != 3 {
		t.Errorf("expected a 3-move solution, got %+v", a.Solve)
	}
}

func TestAnalyzeLevel_NoGoals(t *testing.T) {
	level := engine.DefaultLevel()
	level.Layout = []string{
		"#######",
		"#.....#",
		"#@o...#",
		"#.....#",
		"#######",
	}

	a := analyzeLevel(context.Background(), level, solver.Options{})
	if !errors.Is(a.SolveErr, solver.ErrNoGoals) {
		t.Errorf("SolveErr = %v, want ErrNoGoals", a.SolveErr)
	}
}

func TestPrintAnalysis(t *testing.T) {
	unsolvable := engine.DefaultLevel()
	unsolvable.Layout = []string{
		"#######",
		"#.....#",
		"#@...x#",
		"#.....#",
		"#######",
	}

	tests := []struct {
		name  string
		level *engine.LevelConfig
		opts  solver.Options
		want  []string
	}{
		{
			name:  "solvable",
			level: engine.DefaultLevel(),
			want: []string{
				"Name: starter",
				"Grid Size: 7 x 5",
				"Movers: 1",
				"Blocks: smooth 1, sticky 1, clingy 1",
				"Goal (6,3): nearest block 2 steps away",
				"✅ Solvable in 3 moves: right, right, right",
			},
		},
		{
			name:  "unsolvable",
			level: unsolvable,
			want: []string{
				"Goal (6,3): no block on the board",
				"CRITICAL: level is unsolvable",
			},
		},
		{
			name:  "state limit",
			level: engine.DefaultLevel(),
			opts:  solver.Options{MaxStates: 1},
			want:  []string{"WARNING: no solution within"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printAnalysis(&buf, analyzeLevel(context.Background(), tt.level, tt.opts))

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
