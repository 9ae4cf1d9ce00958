package engine

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrDuplicateOccupant = errors.New("occupant already registered")
	ErrOccupantNotFound  = errors.New("occupant not found")
)

// Registry maps grid coordinates to the occupant standing there. Each
// occupant's Pos always equals the key it is stored under.
type Registry struct {
	cells     map[Position]*Occupant
	occupants map[OccupantID]*Occupant
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		cells:     make(map[Position]*Occupant),
		occupants: make(map[OccupantID]*Occupant),
	}
}

// Register places o at the given coordinate
func (r *Registry) Register(o *Occupant, at Position) error {
	if existing, ok := r.cells[at]; ok {
		return fmt.Errorf("%w: %s holds occupant %d", ErrCellOccupied, at, existing.ID)
	}
	if _, ok := r.occupants[o.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateOccupant, o.ID)
	}

	o.Pos = at
	r.cells[at] = o
	r.occupants[o.ID] = o
	return nil
}

// Lookup returns the occupant at p, if any
func (r *Registry) Lookup(p Position) (*Occupant, bool) {
	o, ok := r.cells[p]
	return o, ok
}

// Occupant returns the occupant with the given identity
func (r *Registry) Occupant(id OccupantID) (*Occupant, bool) {
	o, ok := r.occupants[id]
	return o, ok
}

// Relocate moves o from one cell to another. It panics when the registry and
// the occupant disagree, since that means a caller bypassed Register/Relocate.
func (r *Registry) Relocate(o *Occupant, from, to Position) {
	if o.Pos != from {
		panic(fmt.Sprintf("registry: occupant %d is at %s, not %s", o.ID, o.Pos, from))
	}
	if held, ok := r.cells[from]; !ok || held != o {
		panic(fmt.Sprintf("registry: cell %s is not held by occupant %d", from, o.ID))
	}
	if held, ok := r.cells[to]; ok && held != o {
		panic(fmt.Sprintf("registry: cell %s already held by occupant %d", to, held.ID))
	}

	delete(r.cells, from)
	o.Pos = to
	r.cells[to] = o
}

// Len returns the number of registered occupants
func (r *Registry) Len() int {
	return len(r.occupants)
}

// Occupants returns all occupants ordered by identity
func (r *Registry) Occupants() []*Occupant {
	result := make([]*Occupant, 0, len(r.occupants))
	for _, o := range r.occupants {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Snapshot returns value copies of all occupants ordered by identity
func (r *Registry) Snapshot() []Occupant {
	occupants := r.Occupants()
	result := make([]Occupant, len(occupants))
	for i, o := range occupants {
		result[i] = *o
	}
	return result
}

// Clone returns a deep copy that shares no occupants with r
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for id, o := range r.occupants {
		cp := *o
		clone.occupants[id] = &cp
		clone.cells[cp.Pos] = &cp
	}
	return clone
}
