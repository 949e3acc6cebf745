package model

import "strings"

// Chemistry is the cell chemistry a user declared.
// Unrecognized is only produced by ParseChemistry; it carries NMC bounds.
type Chemistry int

const (
	ChemistryUnrecognized Chemistry = iota
	ChemistryLFP
	ChemistryNMC
)

func (c Chemistry) String() string {
	switch c {
	case ChemistryLFP:
		return "lfp"
	case ChemistryNMC:
		return "nmc"
	default:
		return "unrecognized"
	}
}

// Known reports whether c is one of the modeled chemistries.
func (c Chemistry) Known() bool {
	return c == ChemistryLFP || c == ChemistryNMC
}

// VoltageBounds holds the fixed per-chemistry voltages.
// Units: volts.
type VoltageBounds struct {
	Nominal float64
	Min     float64
	Max     float64
}

var (
	lfpBounds = VoltageBounds{Nominal: 3.2, Min: 2.8, Max: 3.6}
	nmcBounds = VoltageBounds{Nominal: 3.6, Min: 3.2, Max: 4.0}
)

// Bounds returns the voltage table row for c.
// Anything that is not LFP takes the NMC row.
func (c Chemistry) Bounds() VoltageBounds {
	if c == ChemistryLFP {
		return lfpBounds
	}
	return nmcBounds
}

// Chemistries lists the modeled chemistries in table order.
func Chemistries() []Chemistry {
	return []Chemistry{ChemistryLFP, ChemistryNMC}
}

// NormalizeLabel trims and lower-cases free-text chemistry input.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseChemistry matches free text against the modeled chemistries.
// Matching is case-insensitive; anything else is ChemistryUnrecognized.
func ParseChemistry(s string) Chemistry {
	switch NormalizeLabel(s) {
	case "lfp":
		return ChemistryLFP
	case "nmc":
		return ChemistryNMC
	default:
		return ChemistryUnrecognized
	}
}
