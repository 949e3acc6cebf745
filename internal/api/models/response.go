package models

import (
	"cell-monitor/internal/model"
	"cell-monitor/internal/registry"
)

// Error codes returned in ErrorDetail.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidCount   = "INVALID_COUNT"
	CodeCountMismatch  = "COUNT_MISMATCH"
	CodeCellNotFound   = "CELL_NOT_FOUND"
	CodeNoCells        = "NO_CELLS"
	CodeInternal       = "INTERNAL_ERROR"
)

// DeclareResponse acknowledges a declared cell count
type DeclareResponse struct {
	Count int `json:"count"`
}

// CellInfo is one cell with its derived status
type CellInfo struct {
	ID          string       `json:"id"`
	Chemistry   string       `json:"chemistry"`
	Voltage     float64      `json:"voltage"`
	Current     float64      `json:"current"`
	Temperature float64      `json:"temperature"`
	Capacity    float64      `json:"capacity"`
	MinVoltage  float64      `json:"min_voltage"`
	MaxVoltage  float64      `json:"max_voltage"`
	Status      model.Status `json:"status"`
}

// SummaryInfo contains aggregated cell values
type SummaryInfo struct {
	TotalCells     int     `json:"total_cells"`
	AvgVoltage     float64 `json:"avg_voltage"`
	AvgTemperature float64 `json:"avg_temperature"`
	TotalCapacity  float64 `json:"total_capacity"`
}

// CellsResponse represents the response from GET /api/v1/cells
type CellsResponse struct {
	Count   int          `json:"count"`
	Cells   []CellInfo   `json:"cells"`
	Summary *SummaryInfo `json:"summary,omitempty"`
}

// ChemistryInfo describes one row of the voltage table
type ChemistryInfo struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	NominalVoltage float64 `json:"nominal_voltage"`
	MinVoltage     float64 `json:"min_voltage"`
	MaxVoltage     float64 `json:"max_voltage"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewCellInfo converts a table row.
func NewCellInfo(r registry.Row) CellInfo {
	return CellInfo{
		ID:          r.ID,
		Chemistry:   r.Chemistry.String(),
		Voltage:     r.Voltage,
		Current:     r.Current,
		Temperature: r.Temperature,
		Capacity:    r.Capacity,
		MinVoltage:  r.MinVoltage,
		MaxVoltage:  r.MaxVoltage,
		Status:      r.Status,
	}
}

// NewSummaryInfo converts a registry summary.
func NewSummaryInfo(s registry.Summary) *SummaryInfo {
	return &SummaryInfo{
		TotalCells:     s.TotalCells,
		AvgVoltage:     s.AvgVoltage,
		AvgTemperature: s.AvgTemperature,
		TotalCapacity:  s.TotalCapacity,
	}
}
