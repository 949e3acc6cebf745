package models

// DeclareRequest represents the request body for POST /api/v1/cells/declare.
// The range check happens in the handler so it can report INVALID_COUNT.
type DeclareRequest struct {
	Count int `json:"count"`
}

// ChemistriesRequest represents the request body for POST /api/v1/cells/chemistries.
// Values come from the closed set offered by the form.
type ChemistriesRequest struct {
	Chemistries []string `json:"chemistries" binding:"required,dive,oneof=lfp nmc"`
}

// CurrentRequest represents the request body for PUT /api/v1/cells/:id/current
type CurrentRequest struct {
	Current *float64 `json:"current" binding:"required"`
}
