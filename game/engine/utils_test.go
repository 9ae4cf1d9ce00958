package engine

import "testing"

func TestIsSolved(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		goals    []Position
		expected bool
	}{
		{"no goals", []string{"@o."}, nil, false},
		{"smooth on goal", []string{"@.o"}, []Position{{X: 3, Y: 1}}, true},
		{"sticky on goal", []string{"@.s"}, []Position{{X: 3, Y: 1}}, true},
		{"clingy on goal", []string{"@.c"}, []Position{{X: 3, Y: 1}}, true},
		{"mover on goal", []string{".o@"}, []Position{{X: 3, Y: 1}}, false},
		{"empty goal", []string{"@o."}, []Position{{X: 3, Y: 1}}, false},
		{"one of two covered", []string{"@.o"}, []Position{{X: 3, Y: 1}, {X: 2, Y: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, _ := newTestBoard(t, tt.rows...)
			if got := IsSolved(registry, tt.goals); got != tt.expected {
				t.Errorf("IsSolved() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRenderRows(t *testing.T) {
	registry, _ := newTestBoard(t,
		"#@o.",
		"..sc",
	)
	goals := []Position{{X: 3, Y: 1}, {X: 1, Y: 2}}

	rows := RenderRows(registry, 4, 2, goals)

	want := []string{"#@O.", "x.sc"}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i+1, rows[i], want[i])
		}
	}
}

func TestCountKindAndDistance(t *testing.T) {
	registry, _ := newTestBoard(t, "#@oo#")

	if got := CountKind(registry, Smooth); got != 2 {
		t.Errorf("expected 2 smooth blocks, got %d", got)
	}
	if got := CountKind(registry, Wall); got != 2 {
		t.Errorf("expected 2 walls, got %d", got)
	}
	if got := ManhattanDistance(Position{X: 1, Y: 1}, Position{X: 4, Y: 3}); got != 5 {
		t.Errorf("expected distance 5, got %d", got)
	}
}

func TestStateKeyIgnoresWalls(t *testing.T) {
	registry, rv := newTestBoard(t, "#@..#")
	before := StateKey(registry)

	mover := mustOccupantAt(t, registry, 2, 1)
	if outcome, _ := rv.RequestMove(mover.ID, Right); !outcome.Success {
		t.Fatalf("expected the mover to move")
	}

	after := StateKey(registry)
	if before == after {
		t.Errorf("expected state key to change after a move")
	}
	if after != "@2:3,1" {
		t.Errorf("unexpected state key %q", after)
	}
}

func TestStateKeyBlockIdentity(t *testing.T) {
	build := func(occupants ...Occupant) *Registry {
		registry := NewRegistry()
		for i := range occupants {
			o := occupants[i]
			if err := registry.Register(&o, o.Pos); err != nil {
				t.Fatalf("Register failed: %v", err)
			}
		}
		return registry
	}
	at := func(x, y int) Position { return Position{X: x, Y: y} }

	tests := []struct {
		name      string
		a, b      *Registry
		wantEqual bool
	}{
		{
			name:      "same-kind blocks swapped",
			a:         build(Occupant{1, Mover, at(1, 1)}, Occupant{2, Smooth, at(2, 1)}, Occupant{3, Smooth, at(4, 1)}),
			b:         build(Occupant{1, Mover, at(1, 1)}, Occupant{3, Smooth, at(2, 1)}, Occupant{2, Smooth, at(4, 1)}),
			wantEqual: true,
		},
		{
			name:      "different kinds swapped",
			a:         build(Occupant{1, Mover, at(1, 1)}, Occupant{2, Smooth, at(2, 1)}, Occupant{3, Sticky, at(4, 1)}),
			b:         build(Occupant{1, Mover, at(1, 1)}, Occupant{2, Sticky, at(2, 1)}, Occupant{3, Smooth, at(4, 1)}),
			wantEqual: false,
		},
		{
			name:      "movers swapped",
			a:         build(Occupant{1, Mover, at(1, 1)}, Occupant{2, Mover, at(3, 1)}),
			b:         build(Occupant{2, Mover, at(1, 1)}, Occupant{1, Mover, at(3, 1)}),
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateKey(tt.a) == StateKey(tt.b); got != tt.wantEqual {
				t.Errorf("keys equal = %v, want %v (%q vs %q)", got, tt.wantEqual, StateKey(tt.a), StateKey(tt.b))
			}
		})
	}
}
