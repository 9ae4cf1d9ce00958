package engine

import "fmt"

// Kind identifies how an occupant reacts to move requests
type Kind string

const (
	Wall   Kind = "wall"
	Mover  Kind = "mover"
	Smooth Kind = "smooth"
	Sticky Kind = "sticky"
	Clingy Kind = "clingy"

	// Validation constants
	MinGridSize  = 3
	MaxGridSize  = 50
	MaxBulkMoves = 50
)

// Layout glyphs
const (
	GlyphEmpty  = '.'
	GlyphWall   = '#'
	GlyphMover  = '@'
	GlyphSmooth = 'o'
	GlyphSticky = 's'
	GlyphClingy = 'c'
	GlyphGoal   = 'x'
)

// Position represents x,y coordinates. The board spans [1..width] x [1..height].
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the position one step away in direction d
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit step on the grid, or the zero vector
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// neighborOffsets is the order in which followers of a vacated cell are checked.
// Order matters when two followers compete for the same cell.
var neighborOffsets = [4]Direction{Down, Up, Left, Right}

// Directions lists the four cardinal moves by name
var Directions = []string{"up", "down", "left", "right"}

// ParseDirection maps a direction name to its vector
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Direction{}, false
}

// IsZero reports whether d is the zero vector
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Opposite returns the reversed direction
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Direction{}:
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// OccupantID is the stable identity of an occupant, independent of its position
type OccupantID int

// Occupant is a single grid object
type Occupant struct {
	ID   OccupantID `json:"id"`
	Kind Kind       `json:"kind"`
	Pos  Position   `json:"pos"`
}

// Glyph returns the layout character for the occupant's kind
func (o *Occupant) Glyph() byte {
	return KindGlyph(o.Kind)
}

// KindGlyph returns the layout character for kind k
func KindGlyph(k Kind) byte {
	switch k {
	case Wall:
		return GlyphWall
	case Mover:
		return GlyphMover
	case Smooth:
		return GlyphSmooth
	case Sticky:
		return GlyphSticky
	case Clingy:
		return GlyphClingy
	}
	return GlyphEmpty
}

// GlyphKind maps a layout character to a kind. Empty and goal cells report false.
func GlyphKind(c byte) (Kind, bool) {
	switch c {
	case GlyphWall:
		return Wall, true
	case GlyphMover:
		return Mover, true
	case GlyphSmooth:
		return Smooth, true
	case GlyphSticky:
		return Sticky, true
	case GlyphClingy:
		return Clingy, true
	}
	return "", false
}

// Displacement records one committed relocation
type Displacement struct {
	ID   OccupantID `json:"id"`
	Kind Kind       `json:"kind"`
	From Position   `json:"from"`
	To   Position   `json:"to"`
}

// LevelMessages holds the text shown for board events
type LevelMessages struct {
	Welcome string `json:"welcome" yaml:"welcome"`
	Moved   string `json:"moved,omitempty" yaml:"moved,omitempty"`
	Blocked string `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Solved  string `json:"solved" yaml:"solved"`
}

// LevelConfig represents a puzzle level loaded from JSON or YAML
type LevelConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Width       int               `json:"width" yaml:"width"`
	Height      int               `json:"height" yaml:"height"`
	Layout      []string          `json:"layout" yaml:"layout"`
	Legend      map[string]string `json:"legend" yaml:"legend"`
	Goals       []Position        `json:"goals,omitempty" yaml:"goals,omitempty"`
	Messages    LevelMessages     `json:"messages" yaml:"messages"`
}

// Dimensions implements Bounds
func (c *LevelConfig) Dimensions() (int, int) {
	return c.Width, c.Height
}

// BoardState represents the complete board state
type BoardState struct {
	LevelName string     `json:"level_name"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Occupants []Occupant `json:"occupants"`
	Goals     []Position `json:"goals,omitempty"`
	Message   string     `json:"message"`
	Solved    bool       `json:"solved"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Rendered view for text clients (not used by the resolver)
	Rows []string `json:"rows,omitempty"`
}

// Clone returns a deep copy of the state that shares no slices with s
func (s *BoardState) Clone() *BoardState {
	if s == nil {
		return nil
	}

	c := *s
	c.Occupants = make([]Occupant, len(s.Occupants))
	copy(c.Occupants, s.Occupants)
	c.Goals = append([]Position(nil), s.Goals...)
	c.Rows = append([]string(nil), s.Rows...)
	c.MoveHistory = cloneHistory(s.MoveHistory)
	c.CurrentMoves = cloneHistory(s.CurrentMoves)
	return &c
}

func cloneHistory(history []MoveHistoryEntry) []MoveHistoryEntry {
	out := make([]MoveHistoryEntry, len(history))
	for i, entry := range history {
		entry.Moved = append([]Displacement(nil), entry.Moved...)
		out[i] = entry
	}
	return out
}

// MoveHistoryEntry represents a single move request in the board history
type MoveHistoryEntry struct {
	Action     string         `json:"action"`
	Actor      OccupantID     `json:"actor"`
	Success    bool           `json:"success"`
	Moved      []Displacement `json:"moved,omitempty"`
	Timestamp  int64          `json:"timestamp"`
	MoveNumber int            `json:"move_number"`
}
