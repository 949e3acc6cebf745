package registry

import (
	"fmt"
	"io"
	"iter"
)

// FormatRow renders a row in dictionary form, e.g.
//
//	cell_1_lfp: {'voltage': 3.2, 'current': 0.0, 'temp': 31.4, 'capacity': 0.0, 'min_voltage': 2.8, 'max_voltage': 3.6}
func FormatRow(r Row) string {
	return fmt.Sprintf(
		"%s: {'voltage': %s, 'current': %s, 'temp': %s, 'capacity': %s, 'min_voltage': %s, 'max_voltage': %s}",
		r.ID,
		FormatFloat(r.Voltage),
		FormatFloat(r.Current),
		FormatFloat(r.Temperature),
		FormatFloat(r.Capacity),
		FormatFloat(r.MinVoltage),
		FormatFloat(r.MaxVoltage),
	)
}

// WriteText writes one FormatRow line per row.
func WriteText(w io.Writer, rows iter.Seq[Row]) error {
	for r := range rows {
		if _, err := fmt.Fprintln(w, FormatRow(r)); err != nil {
			return err
		}
	}
	return nil
}
