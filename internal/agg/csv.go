package agg

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the table as delimited text with a two-level column
// header: a "Variable" row repeating each signal name over its five
// statistic columns, a "Statistic" row naming them, then one data row per
// window prefixed with its index.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	variable := []string{"Variable"}
	statistic := []string{"Statistic"}
	for _, sig := range Signals {
		for _, stat := range Statistics {
			variable = append(variable, sig)
			statistic = append(statistic, stat)
		}
	}
	if err := cw.Write(variable); err != nil {
		return err
	}
	if err := cw.Write(statistic); err != nil {
		return err
	}

	record := make([]string, 0, 1+len(Signals)*len(Statistics))
	for i, row := range t.Rows {
		record = record[:0]
		record = append(record, strconv.Itoa(i))
		for _, stats := range row.BySignal() {
			for _, v := range stats.Values() {
				record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
