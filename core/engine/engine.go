// Package engine provides the API-primary toll pricing engine.
// CLI and HTTP server are thin wrappers around this engine.
package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tollgrid/core/ingestion"
	"tollgrid/core/matrix"
	"tollgrid/core/normalizer"
	"tollgrid/core/pricing"
	"tollgrid/core/source"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
	"tollgrid/internal/config"
	"tollgrid/internal/logging"
)

// Engine owns the loaded price table. The table is sealed before New
// returns, so the query methods are safe for concurrent use.
type Engine struct {
	runID      string
	loadedAt   time.Time
	normalizer *normalizer.NameNormalizer
	table      *pricing.Table
	audit      *types.LoadAudit
	builder    *matrix.Builder
	logger     *zap.Logger
}

// New loads the alias table and every price list named by cfg.
// Only an unreadable alias table fails; price list problems end up in the audit.
func New(cfg *config.Config, opts ...matrix.Option) (*Engine, error) {
	runID := uuid.NewString()
	logger := logging.With(zap.String("run_id", runID))
	start := time.Now()

	sourceOptions := source.Options{Encoding: cfg.Prices.Encoding}
	n, err := normalizer.Load(cfg.Prices.AliasFile, sourceOptions)
	if err != nil {
		logger.Error("cannot load alias table", zap.Error(err))
		return nil, err
	}

	table := pricing.NewTable()
	loader := ingestion.NewLoader(ingestion.Config{
		FlatDir:     cfg.Prices.FlatDir,
		MatrixDir:   cfg.Prices.MatrixDir,
		TriangleDir: cfg.Prices.TriangleDir,
		DefaultYear: uint16(cfg.Prices.DefaultYear),
		Source:      sourceOptions,
	}, n, table)
	audit := loader.Load()
	table.Seal()

	logger.Info("prices loaded",
		zap.Int("prices", table.Len()),
		zap.Int("cars", audit.Loaded(types.CategoryCar)),
		zap.Int("motorcycles", audit.Loaded(types.CategoryMotorcycle)),
		zap.Int("errors", len(audit.Errors)),
		zap.String("table_hash", table.ContentHash()),
		zap.Duration("duration", time.Since(start)))

	return &Engine{
		runID:      runID,
		loadedAt:   time.Now(),
		normalizer: n,
		table:      table,
		audit:      audit,
		builder:    matrix.NewBuilder(table, n, opts...),
		logger:     logger,
	}, nil
}

// RunID identifies this load in logs
func (e *Engine) RunID() string {
	return e.runID
}

// Audit returns the load audit
func (e *Engine) Audit() *types.LoadAudit {
	return e.audit
}

// BuildMatrix rebuilds the matrices of the toll file at tollPath and writes
// the result to outPath. Nothing is written when the toll file is invalid.
func (e *Engine) BuildMatrix(tollPath, outPath string) ([]matrix.TollReport, error) {
	doc, err := tollfile.Load(tollPath)
	if err != nil {
		return nil, err
	}
	reports := e.RebuildDocument(doc)
	if err := tollfile.Write(outPath, doc); err != nil {
		return nil, err
	}
	e.logger.Info("toll file written", zap.String("input", tollPath), zap.String("output", outPath))
	return reports, nil
}

// RebuildDocument rebuilds the matrices of doc in place
func (e *Engine) RebuildDocument(doc *tollfile.Document) []matrix.TollReport {
	reports := e.builder.UpdateDocument(doc)
	skipped := 0
	for _, r := range reports {
		if r.Skipped {
			skipped++
		}
	}
	e.logger.Info("matrices rebuilt", zap.Int("tolls", len(reports)), zap.Int("skipped", skipped))
	return reports
}

// GetPrices returns the prices of every route whose entry station contains entry
func (e *Engine) GetPrices(entry string) []types.PriceEntry {
	return e.table.PricesFrom(e.query(entry))
}

// GetStations returns every known station whose name contains name
func (e *Engine) GetStations(name string) []string {
	return e.table.Stations(e.query(name))
}

// query normalizes a search fragment the way station names are normalized
func (e *Engine) query(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	return e.normalizer.Normalize(fragment)
}

// Status summarizes the loaded table
type Status struct {
	RunID      string                 `json:"run_id"`
	LoadedAt   time.Time              `json:"loaded_at"`
	TableHash  string                 `json:"table_hash"`
	Prices     int                    `json:"prices"`
	ByCategory map[types.Category]int `json:"by_category"`
	Stations   int                    `json:"stations"`
	Aliases    int                    `json:"aliases"`
	Errors     int                    `json:"errors"`
}

// CheckPrices returns the table size alongside the load audit
func (e *Engine) CheckPrices() (Status, *types.LoadAudit) {
	return Status{
		RunID:      e.runID,
		LoadedAt:   e.loadedAt,
		TableHash:  e.table.ContentHash(),
		Prices:     e.table.Len(),
		ByCategory: e.table.CountByCategory(),
		Stations:   len(e.table.Stations("")),
		Aliases:    e.normalizer.Aliases(),
		Errors:     len(e.audit.Errors),
	}, e.audit
}
