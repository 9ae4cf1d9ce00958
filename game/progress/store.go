package progress

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage location of the progress record
const (
	progressObject   = "progress"
	progressProperty = "levels"
)

// LevelRecord is the local player's result on one level
type LevelRecord struct {
	Attempts  int  `yaml:"attempts"`
	Solved    bool `yaml:"solved"`
	BestMoves int  `yaml:"bestMoves"` // fewest moves of a solving run, 0 until solved
}

// Store keeps per-level progress for the terminal player.
// A nil gdata manager keeps progress in memory only.
type Store struct {
	gdataManager *gdata.Manager
	records      map[string]*LevelRecord
	mu           sync.Mutex
}

// Open creates a store under the per-user data directory of appName.
// When the directory cannot be opened the store falls back to memory only.
func Open(appName string) *Store {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[progress] Warning: persistent storage unavailable: %v (progress kept in memory)", err)
		manager = nil
	}

	store, err := NewStore(manager)
	if err != nil {
		log.Printf("[progress] Warning: %v (starting with empty progress)", err)
	}
	return store
}

// NewStore creates a store and loads any saved progress. A load error is
// returned alongside a usable, empty store.
func NewStore(gdataManager *gdata.Manager) (*Store, error) {
	s := &Store{
		gdataManager: gdataManager,
		records:      make(map[string]*LevelRecord),
	}
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// Persistent reports whether progress survives restarts
func (s *Store) Persistent() bool {
	return s.gdataManager != nil
}

// Load replaces the in-memory records with the saved ones
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*LevelRecord)
	if s.gdataManager == nil {
		return nil
	}
	if !s.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded map[string]*LevelRecord
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	for id, record := range loaded {
		if record != nil {
			s.records[id] = record
		}
	}
	return nil
}

// Save writes the records. It is a no-op without a gdata manager.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Record returns a copy of the level's record
func (s *Store) Record(levelID string) LevelRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[levelID]; ok {
		return *r
	}
	return LevelRecord{}
}

// RecordAttempt counts a new play of the level
func (s *Store) RecordAttempt(levelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(levelID).Attempts++
}

// RecordSolve marks the level solved in moves and reports whether that is a new best
func (s *Store) RecordSolve(levelID string, moves int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.record(levelID)
	improved := !r.Solved || moves < r.BestMoves
	r.Solved = true
	if improved {
		r.BestMoves = moves
	}
	return improved
}

// Forget drops the level's record
func (s *Store) Forget(levelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, levelID)
}

// SolvedLevels returns the IDs of solved levels in sorted order
func (s *Store) SolvedLevels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, r := range s.records {
		if r.Solved {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) record(levelID string) *LevelRecord {
	r, ok := s.records[levelID]
	if !ok {
		r = &LevelRecord{}
		s.records[levelID] = r
	}
	return r
}
