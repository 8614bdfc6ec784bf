package dto

import "encoding/json"

// ProbeRequest body para POST /api/probe.
type ProbeRequest struct {
	SellerID    string         `json:"sellerId" validate:"required"`
	Endpoint    string         `json:"endpoint" validate:"required"`
	Environment string         `json:"environment" validate:"omitempty,oneof=sandbox production"`
	Params      map[string]any `json:"params"`
}

// ProbeResponse respuesta cruda del gateway.
type ProbeResponse struct {
	Endpoint    string          `json:"endpoint"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	StatusCode  int             `json:"statusCode"`
	ContentType string          `json:"contentType,omitempty"`
	Body        json.RawMessage `json:"body"`
	DurationMs  int64           `json:"durationMs"`
}
