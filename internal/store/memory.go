package store

import (
	"errors"
	"sync"
	"time"

	"github.com/plantops/greenhouse-data-sim/internal/plant"
)

var (
	// ErrNotFound is returned when no runs are available for a given plant.
	ErrNotFound = errors.New("no runs for plant")
)

// runHistory holds a time-ordered list of runs for a plant.
type runHistory struct {
	Runs []plant.Run
}

// MemoryStore is a concurrency-safe in-memory implementation of a run store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: plant ID, value: history
	data map[string]*runHistory

	// retention configuration
	maxHistory int           // max number of runs per plant
	maxAge     time.Duration // optional max age for runs
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited; same for maxAge.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*runHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveRun appends a new run for a plant and enforces retention.
func (s *MemoryStore) SaveRun(run plant.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[run.PlantID]
	if !ok {
		history = &runHistory{}
		s.data[run.PlantID] = history
	}

	history.Runs = append(history.Runs, run)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Runs) > s.maxHistory {
		over := len(history.Runs) - s.maxHistory
		history.Runs = history.Runs[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Runs); i++ {
			if !history.Runs[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.Runs) {
			history.Runs = history.Runs[i:]
		}
	}
}

// GetLatest returns the most recent run for a plant.
func (s *MemoryStore) GetLatest(plantID string) (plant.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[plantID]
	if !ok || len(history.Runs) == 0 {
		return plant.Run{}, ErrNotFound
	}
	return history.Runs[len(history.Runs)-1], nil
}

// GetRange returns all runs for a plant generated between from and to (inclusive).
func (s *MemoryStore) GetRange(plantID string, from, to time.Time) ([]plant.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[plantID]
	if !ok || len(history.Runs) == 0 {
		return nil, ErrNotFound
	}

	var result []plant.Run
	for _, run := range history.Runs {
		if !run.GeneratedAt.Before(from) && !run.GeneratedAt.After(to) {
			result = append(result, run)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
