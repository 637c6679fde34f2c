// Package agg reduces a simulated time series into fixed-width window
// statistics: one row of (mean, min, max, 25%, 75%) per signal per block.
package agg

import (
	"math"
	"sort"

	"github.com/plantops/greenhouse-data-sim/internal/sim"
)

// Signals lists the aggregated signals in column order.
var Signals = []string{"humidity", "light", "temperature"}

// Statistics lists the per-signal statistics in column order.
var Statistics = []string{"mean", "min", "max", "25%", "75%"}

// Stats summarizes one signal over one window.
type Stats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P25  float64 `json:"p25"`
	P75  float64 `json:"p75"`
}

// Values returns the statistics in Statistics order.
func (st Stats) Values() []float64 {
	return []float64{st.Mean, st.Min, st.Max, st.P25, st.P75}
}

// Row is one aggregated window across the three signals.
type Row struct {
	Humidity    Stats `json:"humidity"`
	Light       Stats `json:"light"`
	Temperature Stats `json:"temperature"`
}

// BySignal returns the row's stats in Signals order.
func (r Row) BySignal() []Stats {
	return []Stats{r.Humidity, r.Light, r.Temperature}
}

// Table is the aggregated output of one run: floor(N/k) rows in time order.
type Table struct {
	BlockSize int   `json:"blockSize"`
	Rows      []Row `json:"rows"`
}

// Window partitions the series into contiguous non-overlapping blocks of k
// samples and reduces each block to one Row. The trailing N mod k samples
// are dropped, not padded, so the table always has exactly floor(N/k) rows
// (callers relying on the row count should derive it the same way). The
// reduction uses no randomness: repeated calls on the same series yield
// identical output. k must be >= 1.
func Window(s sim.Series, k int) Table {
	numBlocks := s.Len() / k
	t := Table{
		BlockSize: k,
		Rows:      make([]Row, 0, numBlocks),
	}

	for b := 0; b < numBlocks; b++ {
		lo, hi := b*k, (b+1)*k
		t.Rows = append(t.Rows, Row{
			Humidity:    blockStats(s.Humidity[lo:hi]),
			Light:       blockStats(s.Light[lo:hi]),
			Temperature: blockStats(s.Temperature[lo:hi]),
		})
	}

	return t
}

func blockStats(vals []float64) Stats {
	var sum float64
	for _, v := range vals {
		sum += v
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	return Stats{
		Mean: sum / float64(len(vals)),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P25:  percentile(sorted, 0.25),
		P75:  percentile(sorted, 0.75),
	}
}

// percentile computes the q-th percentile of an ascending-sorted slice with
// linear interpolation between order statistics.
func percentile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
