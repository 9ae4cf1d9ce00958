package engine

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	o := &Occupant{ID: 1, Kind: Smooth}

	if err := r.Register(o, Position{X: 2, Y: 3}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if o.Pos != (Position{X: 2, Y: 3}) {
		t.Errorf("expected Register to set position (2,3), got %s", o.Pos)
	}

	got, ok := r.Lookup(Position{X: 2, Y: 3})
	if !ok || got != o {
		t.Fatalf("expected lookup to return the registered occupant")
	}
	if _, ok := r.Lookup(Position{X: 1, Y: 1}); ok {
		t.Errorf("expected empty cell to report no occupant")
	}
	if byID, ok := r.Occupant(1); !ok || byID != o {
		t.Errorf("expected identity lookup to return the registered occupant")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 occupant, got %d", r.Len())
	}
}

func TestRegistry_RegisterConflicts(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Occupant{ID: 1, Kind: Wall}, Position{X: 1, Y: 1}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(&Occupant{ID: 2, Kind: Smooth}, Position{X: 1, Y: 1})
	if !errors.Is(err, ErrCellOccupied) {
		t.Errorf("expected ErrCellOccupied, got %v", err)
	}

	err = r.Register(&Occupant{ID: 1, Kind: Smooth}, Position{X: 2, Y: 2})
	if !errors.Is(err, ErrDuplicateOccupant) {
		t.Errorf("expected ErrDuplicateOccupant, got %v", err)
	}

	if r.Len() != 1 {
		t.Errorf("failed registrations must not change the registry, got %d occupants", r.Len())
	}
}

func TestRegistry_Relocate(t *testing.T) {
	r := NewRegistry()
	o := &Occupant{ID: 1, Kind: Mover}
	if err := r.Register(o, Position{X: 1, Y: 1}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	r.Relocate(o, Position{X: 1, Y: 1}, Position{X: 2, Y: 1})

	if _, ok := r.Lookup(Position{X: 1, Y: 1}); ok {
		t.Errorf("old cell should be empty after relocate")
	}
	if got, ok := r.Lookup(Position{X: 2, Y: 1}); !ok || got != o {
		t.Errorf("new cell should hold the occupant")
	}
	if o.Pos != (Position{X: 2, Y: 1}) {
		t.Errorf("occupant position should follow the registry key, got %s", o.Pos)
	}
}

func TestRegistry_RelocatePanicsOnMismatch(t *testing.T) {
	tests := []struct {
		name string
		from Position
		to   Position
	}{
		{"stale from", Position{X: 3, Y: 3}, Position{X: 2, Y: 1}},
		{"occupied target", Position{X: 1, Y: 1}, Position{X: 2, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			o := &Occupant{ID: 1, Kind: Mover}
			_ = r.Register(o, Position{X: 1, Y: 1})
			_ = r.Register(&Occupant{ID: 2, Kind: Wall}, Position{X: 2, Y: 2})

			defer func() {
				if recover() == nil {
					t.Errorf("expected Relocate to panic")
				}
			}()
			r.Relocate(o, tt.from, tt.to)
		})
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	r := NewRegistry()
	o := &Occupant{ID: 1, Kind: Smooth}
	_ = r.Register(o, Position{X: 1, Y: 1})

	clone := r.Clone()
	co, ok := clone.Occupant(1)
	if !ok {
		t.Fatalf("clone is missing occupant 1")
	}
	clone.Relocate(co, Position{X: 1, Y: 1}, Position{X: 2, Y: 1})

	if o.Pos != (Position{X: 1, Y: 1}) {
		t.Errorf("moving a cloned occupant changed the original: %s", o.Pos)
	}
	if _, ok := r.Lookup(Position{X: 2, Y: 1}); ok {
		t.Errorf("original registry should not see the clone's move")
	}
}

func TestRegistry_OccupantsOrderedByID(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&Occupant{ID: 3, Kind: Wall}, Position{X: 1, Y: 1})
	_ = r.Register(&Occupant{ID: 1, Kind: Mover}, Position{X: 2, Y: 1})
	_ = r.Register(&Occupant{ID: 2, Kind: Sticky}, Position{X: 3, Y: 1})

	snapshot := r.Snapshot()
	for i, o := range snapshot {
		if o.ID != OccupantID(i+1) {
			t.Errorf("snapshot[%d] has ID %d, want %d", i, o.ID, i+1)
		}
	}
}
