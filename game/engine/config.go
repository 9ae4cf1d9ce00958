package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RequiredLegend is the glyph legend every level must declare
var RequiredLegend = map[string]string{
	".": "empty",
	"#": "wall",
	"@": "mover",
	"o": "smooth",
	"s": "sticky",
	"c": "clingy",
	"x": "goal",
}

// ValidateLevelConfig validates a level for correctness
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return fmt.Errorf("level validation: level is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("level validation: description is required")
	}

	// Validate grid size
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("level validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("level validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	// Validate layout
	if len(config.Layout) != config.Height {
		return fmt.Errorf("level validation: layout must have %d rows to match height, got %d",
			config.Height, len(config.Layout))
	}

	movers := 0
	for i, row := range config.Layout {
		if len(row) != config.Width {
			return fmt.Errorf("level validation: row %d must have %d characters to match width, got %d",
				i+1, config.Width, len(row))
		}

		for j := 0; j < len(row); j++ {
			c := row[j]
			if c == GlyphEmpty || c == GlyphGoal {
				continue
			}
			kind, ok := GlyphKind(c)
			if !ok {
				return fmt.Errorf("level validation: invalid character '%c' at row %d, col %d", c, i+1, j+1)
			}
			if kind == Mover {
				movers++
			}
		}
	}

	if movers == 0 {
		return fmt.Errorf("level validation: layout must contain at least one mover (@)")
	}

	// Validate legend
	for key, expectedValue := range RequiredLegend {
		if value, ok := config.Legend[key]; !ok || value != expectedValue {
			return fmt.Errorf("level validation: legend['%s'] must be '%s', got '%s'", key, expectedValue, value)
		}
	}

	// Validate goals
	for _, goal := range config.Goals {
		if goal.X < 1 || goal.X > config.Width || goal.Y < 1 || goal.Y > config.Height {
			return fmt.Errorf("level validation: goal %s is outside the %dx%d board", goal, config.Width, config.Height)
		}
		if config.Layout[goal.Y-1][goal.X-1] == GlyphWall {
			return fmt.Errorf("level validation: goal %s is on a wall", goal)
		}
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("level validation: messages.welcome is required")
	}
	if config.Messages.Moved != "" && !strings.Contains(config.Messages.Moved, "%s") {
		return fmt.Errorf("level validation: messages.moved must contain %%s for the direction")
	}
	if config.Messages.Blocked != "" && !strings.Contains(config.Messages.Blocked, "%s") {
		return fmt.Errorf("level validation: messages.blocked must contain %%s for the direction")
	}

	return nil
}

// BuildRegistry places every occupant of the layout. Identities are assigned
// from 1 in reading order.
func BuildRegistry(config *LevelConfig) (*Registry, error) {
	registry := NewRegistry()
	next := OccupantID(1)

	for i, row := range config.Layout {
		for j := 0; j < len(row); j++ {
			kind, ok := GlyphKind(row[j])
			if !ok {
				continue
			}
			o := &Occupant{ID: next, Kind: kind}
			if err := registry.Register(o, Position{X: j + 1, Y: i + 1}); err != nil {
				return nil, err
			}
			next++
		}
	}

	return registry, nil
}

// LevelGoals returns the goal cells declared in the goals list and marked with
// x in the layout, without duplicates
func LevelGoals(config *LevelConfig) []Position {
	seen := make(map[Position]bool)
	var goals []Position

	for _, goal := range config.Goals {
		if !seen[goal] {
			seen[goal] = true
			goals = append(goals, goal)
		}
	}
	for i, row := range config.Layout {
		for j := 0; j < len(row); j++ {
			if row[j] != GlyphGoal {
				continue
			}
			goal := Position{X: j + 1, Y: i + 1}
			if !seen[goal] {
				seen[goal] = true
				goals = append(goals, goal)
			}
		}
	}

	return goals
}

// DecodeLevelConfig parses level data. YAML is used for .yaml/.yml names, JSON otherwise.
func DecodeLevelConfig(name string, data []byte) (*LevelConfig, error) {
	var config LevelConfig

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// LoadLevelConfig loads and validates a level from a JSON or YAML file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	// Support LEVELS_DIR environment variable for alternative level directory
	levelPath := filename
	if levelsDir := os.Getenv("LEVELS_DIR"); levelsDir != "" {
		if strings.HasPrefix(filename, "levels/") {
			levelPath = filepath.Join(levelsDir, strings.TrimPrefix(filename, "levels/"))
		}
	}

	data, err := os.ReadFile(levelPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeLevelConfig(levelPath, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultLevel returns the built-in level used when no level files are available
func DefaultLevel() *LevelConfig {
	return &LevelConfig{
		Name:        "starter",
		Description: "Push the smooth block onto the goal",
		Width:       7,
		Height:      5,
		Layout: []string{
			"#######",
			"#.....#",
			"#@o..x#",
			"#..sc.#",
			"#######",
		},
		Legend: copyLegend(),
		Messages: LevelMessages{
			Welcome: "Push the blocks onto the goals.",
			Moved:   "Moved %s",
			Blocked: "Can't move %s",
			Solved:  "Solved! Every goal is covered.",
		},
	}
}

func copyLegend() map[string]string {
	legend := make(map[string]string, len(RequiredLegend))
	for k, v := range RequiredLegend {
		legend[k] = v
	}
	return legend
}
