package solver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

func TestSolve_DefaultLevel(t *testing.T) {
	level := engine.DefaultLevel()

	result, err := Solve(context.Background(), level, nil, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved {
		t.Fatalf("expected a solution, explored %d states", result.Explored)
	}

	want := []string{"right", "right", "right"}
	if !reflect.DeepEqual(result.Moves, want) {
		t.Errorf("expected shortest solution %v, got %v", want, result.Moves)
	}

	ok, err := Verify(level, result.Moves)
	if err != nil || !ok {
		t.Errorf("solution does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSolve_FromCurrentPosition(t *testing.T) {
	level := engine.DefaultLevel()
	e := engine.NewEngineWithDefaults()
	e.Move("right")
	e.Move("right")

	result, err := Solve(context.Background(), level, e.GetState().Occupants, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved || len(result.Moves) != 1 || result.Moves[0] != "right" {
		t.Errorf("expected a single right, got %+v", result)
	}
}

func TestSolve_AlreadySolved(t *testing.T) {
	level := engine.DefaultLevel()
	e := engine.NewEngineWithDefaults()
	e.BulkMove([]string{"right", "right", "right"})

	result, err := Solve(context.Background(), level, e.GetState().Occupants, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Solved || len(result.Moves) != 0 {
		t.Errorf("expected an empty solution, got %+v", result)
	}
}

func TestSolve_Unsolvable(t *testing.T) {
	level := engine.DefaultLevel()
	level.Layout = []string{
		"#######",
		"#.....#",
		"#@...x#",
		"#.....#",
		"#######",
	}

	result, err := Solve(context.Background(), level, nil, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if result.Solved {
		t.Errorf("expected no solution, got %v", result.Moves)
	}
	if !result.Exhausted {
		t.Errorf("expected the search space to be exhausted")
	}
}

func TestSolve_Limits(t *testing.T) {
	level := engine.DefaultLevel()

	tests := []struct {
		name string
		opts Options
	}{
		{"state limit", Options{MaxStates: 1}},
		{"depth limit", Options{MaxDepth: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Solve(context.Background(), level, nil, tt.opts)
			if err != nil {
				t.Fatalf("Solve failed: %v", err)
			}
			if result.Solved {
				t.Errorf("expected the limit to stop the search, got %v", result.Moves)
			}
			if result.Exhausted {
				t.Errorf("a limited search must not report exhaustion")
			}
		})
	}
}

func TestSolve_Errors(t *testing.T) {
	level := engine.DefaultLevel()
	level.Layout[2] = "#@o...#"

	if _, err := Solve(context.Background(), level, nil, Options{}); !errors.Is(err, ErrNoGoals) {
		t.Errorf("expected ErrNoGoals, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Solve(ctx, engine.DefaultLevel(), nil, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	level := engine.DefaultLevel()

	if ok, _ := Verify(level, []string{"right", "right"}); ok {
		t.Errorf("two moves should not solve the starter level")
	}
	if _, err := Verify(level, []string{"right", "jump"}); err == nil {
		t.Errorf("expected an error for an unknown direction")
	}
}
