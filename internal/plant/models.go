package plant

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantops/greenhouse-data-sim/internal/agg"
	"github.com/plantops/greenhouse-data-sim/internal/sim"
)

// Run is one finished simulate-and-aggregate cycle for a plant.
// Runs are derived values: built once by the service, never mutated.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	PlantID     string     `json:"plantId"`
	GeneratedAt time.Time  `json:"generatedAt"` // always UTC
	Seed        int64      `json:"seed"`
	Params      sim.Params `json:"params"`
	Table       agg.Table  `json:"table"`
}
