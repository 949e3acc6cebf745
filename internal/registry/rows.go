package registry

import (
	"iter"

	"cell-monitor/internal/model"
)

// Row is one line of the cell table.
// This is the shared basis for text printing, the table view and CSV export.
type Row struct {
	ID        string
	Chemistry model.Chemistry

	Voltage     float64
	Current     float64
	Temperature float64
	Capacity    float64

	MinVoltage float64
	MaxVoltage float64

	Status model.Status
}

func rowFromCell(c *model.Cell) Row {
	return Row{
		ID:          c.ID,
		Chemistry:   c.Chemistry,
		Voltage:     c.Voltage,
		Current:     c.Current,
		Temperature: c.Temperature,
		Capacity:    c.Capacity,
		MinVoltage:  c.MinVoltage,
		MaxVoltage:  c.MaxVoltage,
		Status:      c.Status(),
	}
}

// Rows yields one row per cell in declaration order. Each range over the
// sequence reads the registry afresh.
func (r *Registry) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, id := range r.order {
			if !yield(rowFromCell(r.cells[id])) {
				return
			}
		}
	}
}
