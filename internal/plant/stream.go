package plant

import "github.com/plantops/greenhouse-data-sim/internal/agg"

// StreamComplete is the status carried by the terminal stream message.
const StreamComplete = "Stream complete"

// Message is one aggregated row on the wire: the row index plus a flat map
// keyed "<signal>_<statistic>" (e.g. "humidity_25%").
type Message struct {
	Index int                `json:"index"`
	Data  map[string]float64 `json:"data"`
}

// Sentinel is the terminal message closing a row stream.
type Sentinel struct {
	Status string `json:"status"`
}

// FlattenRow joins signal and statistic names with an underscore,
// producing the 15 wire keys for one aggregated row.
func FlattenRow(r agg.Row) map[string]float64 {
	data := make(map[string]float64, len(agg.Signals)*len(agg.Statistics))
	for i, stats := range r.BySignal() {
		vals := stats.Values()
		for j, stat := range agg.Statistics {
			data[agg.Signals[i]+"_"+stat] = vals[j]
		}
	}
	return data
}

// Messages converts a table into its ordered data messages, index ascending.
// Emitters send these in order, exactly once, then EndOfStream.
func Messages(t agg.Table) []Message {
	msgs := make([]Message, 0, len(t.Rows))
	for i, row := range t.Rows {
		msgs = append(msgs, Message{Index: i, Data: FlattenRow(row)})
	}
	return msgs
}

// EndOfStream returns the sentinel terminating every row stream.
func EndOfStream() Sentinel {
	return Sentinel{Status: StreamComplete}
}
