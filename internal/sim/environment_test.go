package sim

import (
	"math"
	"testing"
)

func TestLightNeverNegative(t *testing.T) {
	env := NewEnv(DefaultParams(), 42)

	for i := 0; i < 1440; i++ {
		l := env.Light(float64(i))
		if l < 0 {
			t.Fatalf("light at t=%d is negative: %f", i, l)
		}
	}
}

func TestLightFollowsDailyCycle(t *testing.T) {
	p := DefaultParams()
	env := NewEnv(p, 7)

	// Midnight base light is 0, so only clipped noise can remain.
	night := env.Light(0)
	if night > 5*lightNoiseStd {
		t.Errorf("night light unexpectedly high: %f", night)
	}

	// Noon base light is LPeak; even with a cloud dip and noise it should
	// stay well above half the peak.
	noon := env.Light(solarNoon)
	if noon < p.LPeak/2 {
		t.Errorf("noon light unexpectedly low: %f", noon)
	}
}

func TestTemperatureStaysNearAverage(t *testing.T) {
	p := DefaultParams()
	env := NewEnv(p, 11)

	for i := 0; i < 1440; i++ {
		temp := env.Temperature(float64(i))
		if math.Abs(temp-p.TAvg) > p.TAmplitude+2 {
			t.Fatalf("temperature at t=%d outside expected band: %f", i, temp)
		}
	}
}

func TestSameSeedSameEnvironment(t *testing.T) {
	p := DefaultParams()
	a := NewEnv(p, 99)
	b := NewEnv(p, 99)

	for i := 0; i < 500; i++ {
		ti := float64(i) * p.TimeStep
		if la, lb := a.Light(ti), b.Light(ti); la != lb {
			t.Fatalf("light diverged at step %d: %f vs %f", i, la, lb)
		}
		if ta, tb := a.Temperature(ti), b.Temperature(ti); ta != tb {
			t.Fatalf("temperature diverged at step %d: %f vs %f", i, ta, tb)
		}
	}
}
