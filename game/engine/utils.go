package engine

import (
	"fmt"
	"sort"
	"strings"
)

// IsSolved reports whether every goal holds a block. A board without goals is never solved.
func IsSolved(registry *Registry, goals []Position) bool {
	if len(goals) == 0 {
		return false
	}
	for _, goal := range goals {
		o, ok := registry.Lookup(goal)
		if !ok || !IsBlock(o.Kind) {
			return false
		}
	}
	return true
}

// IsBlock reports whether occupants of kind k count toward covering a goal
func IsBlock(k Kind) bool {
	return k == Smooth || k == Sticky || k == Clingy
}

// RenderRows draws the board as layout glyphs. Empty goals show as x and
// blocks resting on a goal are upper-cased.
func RenderRows(registry *Registry, width, height int, goals []Position) []string {
	goalSet := make(map[Position]bool, len(goals))
	for _, g := range goals {
		goalSet[g] = true
	}

	rows := make([]string, height)
	for y := 1; y <= height; y++ {
		var b strings.Builder
		b.Grow(width)
		for x := 1; x <= width; x++ {
			pos := Position{X: x, Y: y}
			o, ok := registry.Lookup(pos)
			switch {
			case ok && goalSet[pos]:
				b.WriteString(strings.ToUpper(string(o.Glyph())))
			case ok:
				b.WriteByte(o.Glyph())
			case goalSet[pos]:
				b.WriteByte(GlyphGoal)
			default:
				b.WriteByte(GlyphEmpty)
			}
		}
		rows[y-1] = b.String()
	}
	return rows
}

// CountKind counts the occupants of a specific kind
func CountKind(registry *Registry, kind Kind) int {
	count := 0
	for _, o := range registry.Occupants() {
		if o.Kind == kind {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// StateKey encodes the positions of all non-wall occupants. Blocks are keyed
// by kind, so boards that differ only by swapping same-kind blocks share a
// key. Movers keep their identity because Move drives them in ID order.
func StateKey(registry *Registry) string {
	occupants := registry.Occupants()
	parts := make([]string, 0, len(occupants))
	for _, o := range occupants {
		switch o.Kind {
		case Wall:
			continue
		case Mover:
			parts = append(parts, fmt.Sprintf("%c%d:%d,%d", KindGlyph(o.Kind), o.ID, o.Pos.X, o.Pos.Y))
		default:
			parts = append(parts, fmt.Sprintf("%c:%d,%d", KindGlyph(o.Kind), o.Pos.X, o.Pos.Y))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
