package plant

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantops/greenhouse-data-sim/internal/agg"
	"github.com/plantops/greenhouse-data-sim/internal/sim"
)

// Store is the contract the in-memory store (and any future persistent
// store) must satisfy.
type Store interface {
	SaveRun(run Run)
	GetLatest(plantID string) (Run, error)
	GetRange(plantID string, from, to time.Time) ([]Run, error)
}

// Sink receives finished runs (MQTT publisher, external collector, ...).
type Sink interface {
	Name() string
	PublishRun(ctx context.Context, run Run) error
}

// Service orchestrates simulation runs: simulate, aggregate, store, publish.
type Service struct {
	store     Store
	sinks     []Sink
	params    sim.Params
	blockSize int
	baseSeed  int64

	mu         sync.Mutex
	runCounter map[string]int64
}

// NewService creates a Service. The simulation parameters are validated
// here, once, so every later Generate works from a known-good config.
func NewService(store Store, sinks []Sink, params sim.Params, blockSize int, baseSeed int64) (*Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("invalid simulation config: block size must be >= 1, got %d", blockSize)
	}
	return &Service{
		store:      store,
		sinks:      sinks,
		params:     params,
		blockSize:  blockSize,
		baseSeed:   baseSeed,
		runCounter: make(map[string]int64),
	}, nil
}

// Generate runs one full simulate-and-aggregate cycle for the plant, stores
// the result, and pushes it to all sinks. Sink failures are logged and do
// not fail the run; the result is stored regardless (partial success).
func (s *Service) Generate(ctx context.Context, plantID string) (Run, error) {
	seed := s.nextSeed(plantID)

	env := sim.NewEnv(s.params, seed)
	series := sim.Run(s.params, env)
	table := agg.Window(series, s.blockSize)

	run := Run{
		ID:          uuid.New(),
		PlantID:     plantID,
		GeneratedAt: time.Now().UTC(),
		Seed:        seed,
		Params:      s.params,
		Table:       table,
	}
	s.store.SaveRun(run)

	for _, sink := range s.sinks {
		if err := sink.PublishRun(ctx, run); err != nil {
			log.Printf("sink %s failed for %s: %v", sink.Name(), plantID, err)
		}
	}

	return run, nil
}

// nextSeed derives a per-plant, per-generation seed from the base seed so
// plants differ from each other but any run replays exactly from its
// recorded seed.
func (s *Service) nextSeed(plantID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.runCounter[plantID]
	s.runCounter[plantID] = n + 1

	h := fnv.New64a()
	h.Write([]byte(plantID))
	return s.baseSeed + int64(h.Sum64()&0x7fffffff) + n
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(plantID string) (Run, error) {
	return s.store.GetLatest(plantID)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(plantID string, from, to time.Time) ([]Run, error) {
	return s.store.GetRange(plantID, from, to)
}
