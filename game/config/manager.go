package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// DefaultLevelID is preferred as the default level when present
const DefaultLevelID = "classic"

// levelExtensions are tried in order when resolving a level ID to a file
var levelExtensions = []string{".json", ".yaml", ".yml"}

// Manager loads levels from a directory and caches them by ID
type Manager struct {
	levelsDir    string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a level manager over levelsDir
func NewManager(levelsDir string) (*Manager, error) {
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	m := &Manager{
		levelsDir: levelsDir,
		levels:    make(map[string]*engine.LevelConfig),
	}
	m.defaultLevel = m.pickDefault()
	return m, nil
}

// LoadLevel loads a level by ID. The ID is the file name with or without its extension.
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	id := levelID(name)

	m.mu.RLock()
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	level, err := engine.DecodeLevelConfig(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	if err := engine.ValidateLevelConfig(level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[id] = level
	return level, nil
}

// ListLevels describes every valid level in the directory, sorted by ID
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var levels []*service.LevelInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isLevelFile(entry.Name()) {
			continue
		}

		id := levelID(entry.Name())
		if seen[id] {
			continue
		}

		level, err := m.LoadLevel(entry.Name())
		if err != nil {
			// Skip invalid levels
			continue
		}
		seen[id] = true

		levels = append(levels, &service.LevelInfo{
			Filename:    entry.Name(),
			LevelID:     id,
			Name:        level.Name,
			Description: level.Description,
			Width:       level.Width,
			Height:      level.Height,
			Goals:       len(engine.LevelGoals(level)),
			Movers:      strings.Count(strings.Join(level.Layout, ""), string(rune(engine.GlyphMover))),
		})
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].LevelID < levels[j].LevelID
	})
	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by ID
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops cached levels and picks the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	level := m.pickDefault()

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
}

// SaveLevel validates and writes a level. The extension of name selects the
// format; names without one are written as JSON.
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	filename := name
	if !isLevelFile(filename) {
		filename = name + ".json"
	}

	var data []byte
	var err error
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(level)
	default:
		data, err = json.MarshalIndent(level, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.levelsDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[levelID(filename)] = level
	m.mu.Unlock()
	return nil
}

// pickDefault prefers the classic level, then the first valid level, then the built-in one
func (m *Manager) pickDefault() *engine.LevelConfig {
	if level, err := m.LoadLevel(DefaultLevelID); err == nil {
		return level
	}

	levels, err := m.ListLevels()
	if err != nil || len(levels) == 0 {
		return engine.DefaultLevel()
	}

	level, err := m.LoadLevel(levels[0].Filename)
	if err != nil {
		return engine.DefaultLevel()
	}
	return level
}

// resolve finds the file backing a level name
func (m *Manager) resolve(name string) (string, error) {
	if isLevelFile(name) {
		path := filepath.Join(m.levelsDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", ErrLevelNotFound
		}
		return path, nil
	}

	for _, ext := range levelExtensions {
		path := filepath.Join(m.levelsDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrLevelNotFound
}

func isLevelFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range levelExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// levelID strips a known level extension
func levelID(name string) string {
	if isLevelFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
