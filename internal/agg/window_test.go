package agg

import (
	"math"
	"reflect"
	"testing"

	"github.com/plantops/greenhouse-data-sim/internal/sim"
)

func seriesOf(vals ...float64) sim.Series {
	s := sim.Series{
		Time:        make([]float64, len(vals)),
		Humidity:    make([]float64, len(vals)),
		Light:       make([]float64, len(vals)),
		Temperature: make([]float64, len(vals)),
	}
	for i, v := range vals {
		s.Time[i] = float64(i) * 10
		s.Humidity[i] = v
		s.Light[i] = v * 10
		s.Temperature[i] = v / 2
	}
	return s
}

func TestWindowRowCountDropsRemainder(t *testing.T) {
	s := seriesOf(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	table := Window(s, 3)
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows for 10 samples at k=3, got %d", len(table.Rows))
	}

	// The remainder sample (10) must not leak into any block.
	last := table.Rows[2].Humidity
	if last.Max != 9 {
		t.Errorf("last block max = %f, remainder sample leaked in", last.Max)
	}
}

func TestWindowStatistics(t *testing.T) {
	s := seriesOf(1, 2, 3, 4)

	table := Window(s, 4)
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}

	h := table.Rows[0].Humidity
	want := Stats{Mean: 2.5, Min: 1, Max: 4, P25: 1.75, P75: 3.25}
	if h != want {
		t.Errorf("humidity stats = %+v, want %+v", h, want)
	}

	// The other signals are scaled copies; spot-check light (x10).
	l := table.Rows[0].Light
	if l.P25 != 17.5 || l.P75 != 32.5 {
		t.Errorf("light percentiles = %f/%f, want 17.5/32.5", l.P25, l.P75)
	}
}

func TestWindowStatOrderingInvariant(t *testing.T) {
	p := sim.DefaultParams()
	s := sim.Run(p, sim.NewEnv(p, 21))

	table := Window(s, 6)
	const tol = 1e-9
	for i, row := range table.Rows {
		for j, st := range row.BySignal() {
			ok := st.Min <= st.P25+tol &&
				st.P25 <= st.Mean+tol &&
				st.Mean <= st.P75+tol &&
				st.P75 <= st.Max+tol
			if !ok {
				t.Fatalf("row %d signal %s violates min<=p25<=mean<=p75<=max: %+v", i, Signals[j], st)
			}
		}
	}
}

func TestWindowRowCountEndToEnd(t *testing.T) {
	// 7200 minutes at 10-minute steps: N=720; k=6 gives 120 rows.
	p := sim.DefaultParams()
	s := sim.Run(p, sim.NewEnv(p, 2))

	table := Window(s, 6)
	if len(table.Rows) != 120 {
		t.Fatalf("expected 120 rows, got %d", len(table.Rows))
	}
}

func TestWindowIdempotent(t *testing.T) {
	p := sim.DefaultParams()
	s := sim.Run(p, sim.NewEnv(p, 77))

	a := Window(s, 6)
	b := Window(s, 6)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated aggregation of the same series differs")
	}
}

func TestWindowSingleSampleBlocks(t *testing.T) {
	s := seriesOf(5, 6, 7)

	table := Window(s, 1)
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows at k=1, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		h := row.Humidity
		v := s.Humidity[i]
		if h.Mean != v || h.Min != v || h.Max != v || h.P25 != v || h.P75 != v {
			t.Fatalf("row %d stats should all equal %f: %+v", i, v, h)
		}
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		sorted []float64
		q      float64
		want   float64
	}{
		{[]float64{1, 2, 3, 4}, 0.25, 1.75},
		{[]float64{1, 2, 3, 4}, 0.75, 3.25},
		{[]float64{1, 2, 3, 4, 5}, 0.25, 2},
		{[]float64{1, 2, 3, 4, 5}, 0.75, 4},
		{[]float64{8}, 0.25, 8},
		{[]float64{2, 4}, 0.75, 3.5},
	}

	for _, tt := range tests {
		got := percentile(tt.sorted, tt.q)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("percentile(%v, %g) = %g, want %g", tt.sorted, tt.q, got, tt.want)
		}
	}
}
