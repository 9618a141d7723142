// Package api - Thin, read-only HTTP layer over the pricing engine
// The API is ONLY responsible for: input decoding, engine calls, output serialization.
// The API NEVER touches the price table directly.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tollgrid/core/engine"
	"tollgrid/core/matrix"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// Engine is the part of engine.Engine the server needs
type Engine interface {
	RunID() string
	GetPrices(entry string) []types.PriceEntry
	GetStations(name string) []string
	CheckPrices() (engine.Status, *types.LoadAudit)
	RebuildDocument(doc *tollfile.Document) []matrix.TollReport
}

// maxDocumentBytes bounds the toll document accepted by POST /matrix
const maxDocumentBytes = 32 << 20

// Server is the API server
type Server struct {
	engine  Engine
	mux     *http.ServeMux
	version string
	maxBody int64
}

// NewServer creates a new API server answering from e
func NewServer(version string, e Engine) *Server {
	s := &Server{
		engine:  e,
		mux:     http.NewServeMux(),
		version: version,
		maxBody: maxDocumentBytes,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Queries
	s.mux.HandleFunc("GET /prices", s.handlePrices)
	s.mux.HandleFunc("GET /stations", s.handleStations)
	s.mux.HandleFunc("GET /audit", s.handleAudit)
	s.mux.HandleFunc("POST /matrix", s.handleMatrix)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code for access logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ServeHTTP implements http.Handler. Every request gets an id, echoed in
// the X-Request-ID header, and one access log line.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

	logging.Info("request",
		zap.String("request_id", id),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", zap.String("addr", addr), zap.String("run_id", s.engine.RunID()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("cannot encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{
		RequestID: requestID(r),
		Error:     ErrorDetail{Code: code, Message: message},
	}, status)
}
