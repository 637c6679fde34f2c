package sim

import "math"

// Series holds the aligned per-step outputs of one simulation run. All four
// slices have equal length; Time is strictly increasing with fixed step.
// It is built once by Run and never mutated afterwards.
type Series struct {
	Time        []float64 `json:"time"`
	Humidity    []float64 `json:"humidity"`
	Light       []float64 `json:"light"`
	Temperature []float64 `json:"temperature"`
}

// Len returns the number of samples in the series.
func (s Series) Len() int {
	return len(s.Time)
}

// Run drives the moisture recurrence over the full horizon and returns the
// complete series. Per step: light and temperature are sampled (in that
// order — both consume the env stream), moisture is reset to ThetaInit when
// at or below the watering threshold, then decayed exponentially toward the
// wilting point:
//
//	theta' = (theta - theta_pwp) * exp(-lambda*dt) + theta_pwp
//
// The reset happens before the decay computation for the same step, so the
// recorded series shows the low sample followed by a jump at the next one.
// p must have passed Validate; env must be fresh for reproducible output.
func Run(p Params, env *Env) Series {
	steps := p.TotalSteps()
	s := Series{
		Time:        make([]float64, steps),
		Humidity:    make([]float64, steps),
		Light:       make([]float64, steps),
		Temperature: make([]float64, steps),
	}

	theta := p.ThetaInit
	for i := 0; i < steps; i++ {
		t := float64(i) * p.TimeStep
		s.Time[i] = t
		s.Light[i] = env.Light(t)
		s.Temperature[i] = env.Temperature(t)
		s.Humidity[i] = theta

		if i == steps-1 {
			break
		}

		// Irrigation is instantaneous and happens at the start of the
		// step in which the threshold is crossed.
		if theta <= p.WateringThreshold {
			theta = p.ThetaInit
		}

		lambda := DecayRate(s.Temperature[i], s.Light[i], theta, p)
		theta = (theta-p.ThetaPWP)*math.Exp(-lambda*p.TimeStep) + p.ThetaPWP
		theta = math.Max(0, theta)
	}

	return s
}
