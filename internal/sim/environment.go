package sim

import (
	"math"
	"math/rand"
)

const (
	minutesPerDay = 1440.0
	solarNoon     = 720.0 // light peaks at noon, in simulated minutes of day

	lightNoiseStd  = 5.0
	tempNoiseStd   = 0.2
	cloudChance    = 0.05
	cloudFactorMin = 0.1
	cloudFactorMax = 0.4
)

// Env produces light and temperature samples for the simulated greenhouse.
// It owns the random stream for a run: the same seed replays the exact same
// environment. Not safe for concurrent draws; a run consumes it sequentially.
type Env struct {
	params Params
	rng    *rand.Rand
}

// NewEnv creates an environment model drawing from a stream seeded with seed.
func NewEnv(params Params, seed int64) *Env {
	return &Env{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Light returns light intensity at minute t: a cosine cycle peaking at noon,
// truncated at 0 for night, with Gaussian sensor noise and occasional cloud
// attenuation. Never negative.
func (e *Env) Light(t float64) float64 {
	cosVal := math.Cos((2 * math.Pi / minutesPerDay) * (t - solarNoon))
	base := math.Max(0, e.params.LPeak*cosVal)

	noise := e.rng.NormFloat64() * lightNoiseStd

	// Cloud dips only attenuate actual daylight.
	if e.rng.Float64() < cloudChance && base > 0 {
		cloudFactor := cloudFactorMin + e.rng.Float64()*(cloudFactorMax-cloudFactorMin)
		base *= 1 - cloudFactor
	}

	return math.Max(0, base+noise)
}

// Temperature returns temperature at minute t: a cosine cycle peaking TLag
// minutes after the light peak, plus measurement noise. May be negative.
func (e *Env) Temperature(t float64) float64 {
	tPeak := solarNoon + e.params.TLag
	temp := e.params.TAvg + e.params.TAmplitude*math.Cos((2*math.Pi/minutesPerDay)*(t-tPeak))
	return temp + e.rng.NormFloat64()*tempNoiseStd
}
