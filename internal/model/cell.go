package model

import (
	"fmt"
	"strconv"
)

// Cell is one declared battery cell.
// Units:
// - Voltage, MinVoltage, MaxVoltage: V
// - Current: A
// - Temperature: °C
// - Capacity: Wh (simplified as Voltage * Current)
//
// Voltage bounds and Temperature are fixed at construction; only Current
// changes afterwards, and Capacity always follows it.
type Cell struct {
	ID        string
	Label     string
	Chemistry Chemistry

	Voltage    float64
	MinVoltage float64
	MaxVoltage float64

	Current     float64
	Temperature float64
	Capacity    float64
}

// CellID builds the id for the ordinal-th declared cell (1-based).
func CellID(ordinal int, label string) string {
	return fmt.Sprintf("cell_%d_%s", ordinal, label)
}

// NewCell creates a cell from a normalized chemistry label.
// temperature is rounded to one decimal place.
func NewCell(ordinal int, label string, temperature float64) *Cell {
	chem := ParseChemistry(label)
	b := chem.Bounds()
	c := &Cell{
		ID:          CellID(ordinal, label),
		Label:       label,
		Chemistry:   chem,
		Voltage:     b.Nominal,
		MinVoltage:  b.Min,
		MaxVoltage:  b.Max,
		Temperature: Round(temperature, 1),
	}
	c.SetCurrent(0)
	return c
}

// SetCurrent overwrites the current and recomputes capacity.
func (c *Cell) SetCurrent(current float64) {
	c.Current = current
	c.Capacity = Capacity(c.Voltage, current)
}

// Capacity is voltage × current rounded to two decimals, in Wh.
func Capacity(voltage, current float64) float64 {
	return Round(voltage*current, 2)
}

// Status classifies the cell.
func (c *Cell) Status() Status {
	return ClassifyStatus(c.Voltage, c.MinVoltage, c.MaxVoltage, c.Temperature)
}

// Round rounds x to the given number of decimal places using the exact
// binary value of x, ties to even.
func Round(x float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}
