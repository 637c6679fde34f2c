package sim

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Params is the immutable parameter bundle for one simulation run.
// Construct it once (usually from DefaultParams plus overrides), call
// Validate, and pass it by value; nothing in this package mutates it.
type Params struct {
	// Horizon.
	TotalTimeMinutes float64 `json:"totalTimeMinutes" validate:"gt=0,gtefield=TimeStep"`
	TimeStep         float64 `json:"timeStep" validate:"gt=0"`

	// Soil moisture, percent of field capacity.
	ThetaInit float64 `json:"thetaInit" validate:"gtfield=ThetaPWP,lte=100"`
	ThetaPWP  float64 `json:"thetaPwp" validate:"gt=0"`

	// Decay-rate coefficients.
	KSoil      float64 `json:"kSoil" validate:"gte=0"`
	KCrop      float64 `json:"kCrop" validate:"gte=0"`
	LambdaBase float64 `json:"lambdaBase" validate:"gte=0"`
	CTemp      float64 `json:"cTemp" validate:"gte=0"`
	CLight     float64 `json:"cLight" validate:"gte=0"`

	// Environment drivers.
	LPeak      float64 `json:"lPeak" validate:"gte=0"`
	TAvg       float64 `json:"tAvg"`
	TAmplitude float64 `json:"tAmplitude" validate:"gte=0"`
	TLag       float64 `json:"tLag" validate:"gte=0"`

	// Moisture level at or below which irrigation restores ThetaInit.
	WateringThreshold float64 `json:"wateringThreshold" validate:"gte=0"`
}

// DefaultParams returns the standard greenhouse scenario: a five-day
// horizon sampled every ten minutes.
func DefaultParams() Params {
	return Params{
		TotalTimeMinutes:  7200,
		TimeStep:          10,
		ThetaInit:         90.0,
		ThetaPWP:          15.0,
		KSoil:             0.8,
		KCrop:             0.6,
		LambdaBase:        0.00005,
		CTemp:             0.000015,
		CLight:            0.000020,
		LPeak:             1000,
		TAvg:              22.0,
		TAmplitude:        3.0,
		TLag:              120.0,
		WateringThreshold: 25.0,
	}
}

// Validate rejects configurations that cannot produce a well-formed run:
// non-positive time step or wilting point, an initial moisture at or below
// the wilting point, or a horizon too short for a single step. Callers must
// validate before simulating; Run itself does not re-check.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}
	return nil
}

// TotalSteps returns the number of samples the run will produce,
// floor(TotalTimeMinutes / TimeStep).
func (p Params) TotalSteps() int {
	return int(p.TotalTimeMinutes / p.TimeStep)
}
