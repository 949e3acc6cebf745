package registry

import (
	"encoding/csv"
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// DefaultCSVFileName is the suggested name for downloaded exports.
const DefaultCSVFileName = "battery_cell_data.csv"

// CSVHeader is the column header written by WriteCSV.
var CSVHeader = []string{
	"Cell ID",
	"Voltage (V)",
	"Current (A)",
	"Temperature (°C)",
	"Capacity (Wh)",
	"Min Voltage (V)",
	"Max Voltage (V)",
}

func WriteCSV(w io.Writer, rows iter.Seq[Row]) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for r := range rows {
		rec := []string{
			r.ID,
			FormatFloat(r.Voltage),
			FormatFloat(r.Current),
			FormatFloat(r.Temperature),
			FormatFloat(r.Capacity),
			FormatFloat(r.MinVoltage),
			FormatFloat(r.MaxVoltage),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path, creating parent directories.
func WriteCSVFile(path string, rows iter.Seq[Row]) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create file %s", path)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return pkgerrors.Wrapf(err, "failed to write csv to %s", path)
	}
	return f.Close()
}

// FormatFloat prints the shortest representation that round-trips. Decimal
// exponents from -4 to 15 print in plain form with a decimal point ("0.0",
// "3.2"); anything else uses exponent form ("1e-05", "1e+16").
func FormatFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(x, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
