package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChemistryBounds(t *testing.T) {
	tests := []struct {
		name string
		chem Chemistry
		want VoltageBounds
	}{
		{name: "lfp", chem: ChemistryLFP, want: VoltageBounds{Nominal: 3.2, Min: 2.8, Max: 3.6}},
		{name: "nmc", chem: ChemistryNMC, want: VoltageBounds{Nominal: 3.6, Min: 3.2, Max: 4.0}},
		{name: "unrecognized falls back to nmc", chem: ChemistryUnrecognized, want: VoltageBounds{Nominal: 3.6, Min: 3.2, Max: 4.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.chem.Bounds())
		})
	}
}

func TestParseChemistry(t *testing.T) {
	tests := []struct {
		in   string
		want Chemistry
	}{
		{"lfp", ChemistryLFP},
		{"LFP", ChemistryLFP},
		{"  Lfp ", ChemistryLFP},
		{"nmc", ChemistryNMC},
		{"NMC", ChemistryNMC},
		{"li-ion", ChemistryUnrecognized},
		{"", ChemistryUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseChemistry(tt.in))
		})
	}
	assert.True(t, ChemistryLFP.Known())
	assert.False(t, ChemistryUnrecognized.Known())
	assert.Equal(t, "nmc", ChemistryNMC.String())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name        string
		voltage     float64
		temperature float64
		want        Status
	}{
		{name: "in range", voltage: 3.2, temperature: 30, want: StatusGood},
		{name: "temperature lower edge", voltage: 3.2, temperature: 25, want: StatusGood},
		{name: "temperature upper edge", voltage: 3.2, temperature: 40, want: StatusGood},
		{name: "hot", voltage: 3.2, temperature: 50, want: StatusWarning},
		{name: "cold", voltage: 3.2, temperature: 10, want: StatusWarning},
		{name: "undervoltage", voltage: 1.0, temperature: 30, want: StatusCritical},
		{name: "undervoltage and hot", voltage: 1.0, temperature: 50, want: StatusCritical},
		{name: "overvoltage", voltage: 3.7, temperature: 30, want: StatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.voltage, 2.8, 3.6, tt.temperature)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ClassifyStatus(tt.voltage, 2.8, 3.6, tt.temperature))
		})
	}
}

func TestNewCell(t *testing.T) {
	c := NewCell(1, "lfp", 31.44)
	assert.Equal(t, "cell_1_lfp", c.ID)
	assert.Equal(t, ChemistryLFP, c.Chemistry)
	assert.Equal(t, 3.2, c.Voltage)
	assert.Equal(t, 2.8, c.MinVoltage)
	assert.Equal(t, 3.6, c.MaxVoltage)
	assert.Equal(t, 31.4, c.Temperature)
	assert.Equal(t, 0.0, c.Current)
	assert.Equal(t, 0.0, c.Capacity)
	assert.Equal(t, StatusGood, c.Status())

	u := NewCell(2, "foo", 30)
	assert.Equal(t, "cell_2_foo", u.ID)
	assert.Equal(t, ChemistryUnrecognized, u.Chemistry)
	assert.Equal(t, 3.6, u.Voltage)
}

func TestCellSetCurrent(t *testing.T) {
	c := NewCell(1, "lfp", 30)
	c.SetCurrent(2.0)
	assert.Equal(t, 6.4, c.Capacity)
	assert.Equal(t, 3.2, c.Voltage)

	c.SetCurrent(1.5)
	assert.Equal(t, 4.8, c.Capacity)
	assert.Equal(t, 30.0, c.Temperature)

	n := NewCell(2, "nmc", 30)
	n.SetCurrent(1.5)
	assert.Equal(t, 5.4, n.Capacity)
}

func TestRound(t *testing.T) {
	require.Equal(t, 4.8, Round(3.2*1.5, 2))
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 0.0, Round(0, 2))
	assert.Equal(t, -1.23, Round(-1.234, 2))
	assert.Equal(t, 27.5, Round(27.46, 1))
}
