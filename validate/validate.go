// Command validate lints the level files (JSON or YAML) in a levels
// directory, ../levels by default. It checks:
//   - the level structure accepted by the engine (size, glyphs, legend, messages)
//   - at least one goal, and enough blocks to cover every goal
//   - reachability: every goal and block lies in a region a mover can walk to
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateLevel loads and validates a single level file
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	level, err := engine.DecodeLevelConfig(filePath, data)
	if err != nil {
		result.fail("Invalid level data: %v", err)
		return result
	}

	if err := engine.ValidateLevelConfig(level); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "level validation: "))
		return result
	}

	registry, err := engine.BuildRegistry(level)
	if err != nil {
		result.fail("Failed to place occupants: %v", err)
		return result
	}

	goals := engine.LevelGoals(level)
	movers := engine.CountKind(registry, engine.Mover)
	blocks := 0
	for _, o := range registry.Occupants() {
		if engine.IsBlock(o.Kind) {
			blocks++
		}
	}

	if len(goals) == 0 {
		result.fail("Must have at least 1 goal (x or goals list)")
	}
	if blocks < len(goals) {
		result.fail("Not enough blocks: %d goals but only %d blocks", len(goals), blocks)
	}

	if result.Valid {
		reachability := validateReachability(level, registry, goals)
		if !reachability.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, reachability.Errors...)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", level.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", level.Width, level.Height))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Movers: %d", movers))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Blocks: %d (smooth %d, sticky %d, clingy %d)", blocks,
			engine.CountKind(registry, engine.Smooth),
			engine.CountKind(registry, engine.Sticky),
			engine.CountKind(registry, engine.Clingy)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Goals: %d", len(goals)))
	}

	return result
}

// validateReachability flood-fills the non-wall cells from every mover using
// 4-directional steps and reports goals or blocks outside the filled region.
func validateReachability(level *engine.LevelConfig, registry *engine.Registry, goals []engine.Position) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	passable := func(p engine.Position) bool {
		if p.X < 1 || p.X > level.Width || p.Y < 1 || p.Y > level.Height {
			return false
		}
		o, ok := registry.Lookup(p)
		return !ok || o.Kind != engine.Wall
	}

	visited := make(map[engine.Position]bool)
	var queue []engine.Position
	for _, o := range registry.Occupants() {
		if o.Kind == engine.Mover {
			queue = append(queue, o.Pos)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, name := range engine.Directions {
			dir, _ := engine.ParseDirection(name)
			next := current.Add(dir)
			if !visited[next] && passable(next) {
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for _, goal := range goals {
		if !visited[goal] {
			unreachable = append(unreachable, fmt.Sprintf("Goal at %s", goal))
		}
	}
	for _, o := range registry.Occupants() {
		if engine.IsBlock(o.Kind) && !visited[o.Pos] {
			unreachable = append(unreachable, fmt.Sprintf("%s block #%d at %s", o.Kind, o.ID, o.Pos))
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Reachability failure: %d cells unreachable from any mover", len(unreachable)))
		for _, cell := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", cell))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: all %d goals reachable from a mover", len(goals)))
	}

	return result
}

// levelFiles lists the JSON and YAML files in dir
func levelFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every level in the directory given as the first argument,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	levelsDir := "../levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := levelFiles(levelsDir)
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
