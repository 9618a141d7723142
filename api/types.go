// Package api - API types for the price query service
// These types define the response contract of every endpoint.
package api

import (
	"time"

	"tollgrid/core/engine"
	"tollgrid/core/matrix"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
)

// PriceRow is one route of GET /prices
type PriceRow struct {
	Entry    string         `json:"entry"`
	Exit     string         `json:"exit"`
	Category types.Category `json:"category"`
	Price    types.Currency `json:"price"`
	Year     uint16         `json:"year"`
	Source   string         `json:"source"`
}

// PricesResponse is the output of GET /prices
type PricesResponse struct {
	RequestID string     `json:"request_id"`
	Query     string     `json:"query"`
	Count     int        `json:"count"`
	Prices    []PriceRow `json:"prices"`
}

// StationsResponse is the output of GET /stations
type StationsResponse struct {
	RequestID string   `json:"request_id"`
	Query     string   `json:"query"`
	Count     int      `json:"count"`
	Stations  []string `json:"stations"`
}

// AuditResponse is the output of GET /audit
type AuditResponse struct {
	RequestID string           `json:"request_id"`
	Status    engine.Status    `json:"status"`
	Summary   string           `json:"summary"`
	Audit     *types.LoadAudit `json:"audit"`
}

// MatrixResponse is the output of POST /matrix
type MatrixResponse struct {
	RequestID string              `json:"request_id"`
	Document  *tollfile.Document  `json:"document"`
	Reports   []matrix.TollReport `json:"reports"`
	Metadata  *ResponseMetadata   `json:"metadata"`
}

// ResponseMetadata describes how a rebuild was produced
type ResponseMetadata struct {
	// InputHash is the SHA-256 of the submitted document
	InputHash string `json:"input_hash"`

	// RunID identifies the price load used
	RunID string `json:"run_id"`

	EngineVersion string    `json:"engine_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	DurationMs    int64     `json:"duration_ms"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	RequestID string      `json:"request_id,omitempty"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail describes an error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toPriceRows(entries []types.PriceEntry) []PriceRow {
	rows := make([]PriceRow, len(entries))
	for i, e := range entries {
		rows[i] = PriceRow{
			Entry:    e.Key.Entry,
			Exit:     e.Key.Exit,
			Category: e.Key.Category,
			Price:    e.Price.Value,
			Year:     e.Price.Year,
			Source:   e.Price.Source,
		}
	}
	return rows
}
