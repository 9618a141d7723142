// Package api - HTTP handlers
// Handlers wrap the engine - they contain NO pricing logic.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"tollgrid/core/tollfile"
)

// handlePrices handles GET /prices?entry=
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	entry := r.URL.Query().Get("entry")
	if entry == "" {
		s.writeError(w, r, "MISSING_PARAMETER", "entry is required", http.StatusBadRequest)
		return
	}

	rows := toPriceRows(s.engine.GetPrices(entry))
	s.writeJSON(w, PricesResponse{
		RequestID: requestID(r),
		Query:     entry,
		Count:     len(rows),
		Prices:    rows,
	}, http.StatusOK)
}

// handleStations handles GET /stations?name=. An empty name lists every station.
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	stations := s.engine.GetStations(name)
	if stations == nil {
		stations = []string{}
	}
	s.writeJSON(w, StationsResponse{
		RequestID: requestID(r),
		Query:     name,
		Count:     len(stations),
		Stations:  stations,
	}, http.StatusOK)
}

// handleAudit handles GET /audit
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	status, audit := s.engine.CheckPrices()
	s.writeJSON(w, AuditResponse{
		RequestID: requestID(r),
		Status:    status,
		Summary:   audit.Summary(),
		Audit:     audit,
	}, http.StatusOK)
}

// handleMatrix handles POST /matrix: rebuilds the submitted toll document
// and returns it with one report per toll. Nothing is written to disk.
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, "DOCUMENT_TOO_LARGE", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, r, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := tollfile.Decode(data)
	if err != nil {
		s.writeError(w, r, "INVALID_DOCUMENT", err.Error(), http.StatusBadRequest)
		return
	}

	reports := s.engine.RebuildDocument(doc)
	s.writeJSON(w, MatrixResponse{
		RequestID: requestID(r),
		Document:  doc,
		Reports:   reports,
		Metadata: &ResponseMetadata{
			InputHash:     computeInputHash(data),
			RunID:         s.engine.RunID(),
			EngineVersion: s.version,
			GeneratedAt:   time.Now().UTC(),
			DurationMs:    time.Since(start).Milliseconds(),
		},
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "tollgrid",
		"api_version": "v1",
	}, http.StatusOK)
}

func computeInputHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
