package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Bounds supplies the board dimensions. Valid cells are [1..width] x [1..height].
type Bounds interface {
	Dimensions() (width, height int)
}

// MoveOutcome is the result of one top-level move request
type MoveOutcome struct {
	Success bool           `json:"success"`
	Moved   []Displacement `json:"moved,omitempty"`
}

// Resolver decides and performs coordinated moves on a registry
type Resolver struct {
	registry *Registry
	bounds   Bounds
}

// NewResolver creates a resolver operating on the given registry and bounds
func NewResolver(registry *Registry, bounds Bounds) *Resolver {
	return &Resolver{registry: registry, bounds: bounds}
}

// RequestMove asks the occupant with the given identity to move one step in
// dir. Every occupant it pushes or drags moves in the same request. A refused
// move is reported through MoveOutcome.Success; the error is reserved for an
// unknown identity.
func (rv *Resolver) RequestMove(id OccupantID, dir Direction) (*MoveOutcome, error) {
	o, ok := rv.registry.Occupant(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrOccupantNotFound, id)
	}

	req := rv.newRequest()
	success := req.canMove(o, dir)

	return &MoveOutcome{Success: success, Moved: req.moved}, nil
}

// MoveAll issues one request per mover, in identity order, and merges the
// displacements. It reports success when at least one mover moved.
func (rv *Resolver) MoveAll(dir Direction) *MoveOutcome {
	outcome := &MoveOutcome{}
	for _, o := range rv.registry.Occupants() {
		if o.Kind != Mover {
			continue
		}
		result, err := rv.RequestMove(o.ID, dir)
		if err != nil {
			continue
		}
		if result.Success {
			outcome.Success = true
			outcome.Moved = append(outcome.Moved, result.Moved...)
		}
	}
	return outcome
}

// moveRequest is the state of a single top-level request
type moveRequest struct {
	registry *Registry
	bounds   Bounds
	visited  mapset.Set[OccupantID]
	moved    []Displacement
}

func (rv *Resolver) newRequest() *moveRequest {
	return &moveRequest{
		registry: rv.registry,
		bounds:   rv.bounds,
		visited:  mapset.New[OccupantID](),
	}
}

// canMove handles a request addressed to o. Occupants already processed in
// this request count as satisfied so follower cycles terminate.
func (req *moveRequest) canMove(o *Occupant, dir Direction) bool {
	if req.visited.Has(o.ID) {
		return true
	}

	switch o.Kind {
	case Mover, Smooth, Sticky:
		return req.attemptMove(o, dir)
	case Clingy, Wall:
		// Clingy occupants only move when dragged
		return false
	default:
		return false
	}
}

// attemptMove checks legality for o, moves whatever blocks it and commits.
func (req *moveRequest) attemptMove(o *Occupant, dir Direction) bool {
	if req.visited.Has(o.ID) {
		return false
	}
	req.visited.Put(o.ID)

	if dir.IsZero() {
		return false
	}

	oldPos := o.Pos
	target := oldPos.Add(dir)

	width, height := req.bounds.Dimensions()
	if target.X < 1 || target.X > width || target.Y < 1 || target.Y > height {
		return false
	}

	if blocker, ok := req.registry.Lookup(target); ok {
		if blocker.Kind == Wall {
			return false
		}
		if !req.canMove(blocker, dir) {
			return false
		}
		// A blocker visited earlier in this request may have refused and stayed put
		if _, still := req.registry.Lookup(target); still {
			return false
		}
	}

	req.registry.Relocate(o, oldPos, target)
	req.moved = append(req.moved, Displacement{ID: o.ID, Kind: o.Kind, From: oldPos, To: target})

	if o.Kind == Sticky {
		req.followSticky(oldPos, dir)
	} else {
		req.notifyNeighbors(oldPos, dir)
	}

	return true
}

// followSticky pulls the neighbors of a cell vacated by a sticky occupant.
func (req *moveRequest) followSticky(vacated Position, dir Direction) {
	for _, offset := range neighborOffsets {
		neighbor, ok := req.registry.Lookup(vacated.Add(offset))
		if !ok || req.visited.Has(neighbor.ID) {
			continue
		}

		switch neighbor.Kind {
		case Clingy:
			if offset == dir.Opposite() {
				req.attemptMove(neighbor, dir)
			}
		default:
			req.canMove(neighbor, dir)
		}
	}
}

// notifyNeighbors lets sticky neighbors follow and drags a trailing clingy one.
func (req *moveRequest) notifyNeighbors(vacated Position, dir Direction) {
	for _, offset := range neighborOffsets {
		neighbor, ok := req.registry.Lookup(vacated.Add(offset))
		if !ok || req.visited.Has(neighbor.ID) {
			continue
		}

		switch neighbor.Kind {
		case Sticky:
			req.canMove(neighbor, dir)
		case Clingy:
			if offset == dir.Opposite() {
				req.attemptMove(neighbor, dir)
			}
		}
	}
}
