// Package ingestion loads price lists into the price table.
//
// Three source formats are supported, each read by its own loader:
//
//	FLAT      one route per line, columns named by the file name
//	MATRIX    entry rows x exit columns, one directory per category
//	TRIANGLE  symmetric lower triangle, one directory per category
//
// The loaders always run in the order Flat, Matrix/Car, Matrix/Motorcycle,
// Triangle/Car, Triangle/Motorcycle. Later loaders overwrite same-year
// prices from earlier ones, so the order must not change and the steps
// must not run concurrently.
package ingestion

import (
	"path/filepath"

	"go.uber.org/zap"

	"tollgrid/core/normalizer"
	"tollgrid/core/pricing"
	"tollgrid/core/source"
	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// Format is a price list layout
type Format int

const (
	FormatFlat Format = iota
	FormatMatrix
	FormatTriangle
)

// String returns the string representation
func (f Format) String() string {
	switch f {
	case FormatFlat:
		return "flat"
	case FormatMatrix:
		return "matrix"
	case FormatTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Config locates the price lists
type Config struct {
	// FlatDir holds flat files
	FlatDir string

	// MatrixDir holds one subdirectory per category of matrix files
	MatrixDir string

	// TriangleDir holds one subdirectory per category of triangle files
	TriangleDir string

	// DefaultYear applies to files whose name does not start with a year
	DefaultYear uint16

	// Source controls how files are decoded
	Source source.Options
}

// Step is one entry of the fixed load order
type Step struct {
	Format   Format
	Category types.Category
	Dir      string
}

// Steps returns the load order. The flat step covers both categories.
func (c Config) Steps() []Step {
	return []Step{
		{Format: FormatFlat, Dir: c.FlatDir},
		{Format: FormatMatrix, Category: types.CategoryCar, Dir: filepath.Join(c.MatrixDir, types.CategoryCar.Dir())},
		{Format: FormatMatrix, Category: types.CategoryMotorcycle, Dir: filepath.Join(c.MatrixDir, types.CategoryMotorcycle.Dir())},
		{Format: FormatTriangle, Category: types.CategoryCar, Dir: filepath.Join(c.TriangleDir, types.CategoryCar.Dir())},
		{Format: FormatTriangle, Category: types.CategoryMotorcycle, Dir: filepath.Join(c.TriangleDir, types.CategoryMotorcycle.Dir())},
	}
}

// fileLoader loads one file of a step
type fileLoader func(l *Loader, path string, category types.Category) *types.LoadAudit

var fileLoaders = map[Format]fileLoader{
	FormatFlat:     (*Loader).loadFlatFile,
	FormatMatrix:   (*Loader).loadMatrixFile,
	FormatTriangle: (*Loader).loadTriangleFile,
}

// Loader feeds price lists into a table
type Loader struct {
	config     Config
	normalizer *normalizer.NameNormalizer
	table      *pricing.Table
}

// NewLoader creates a loader writing into table
func NewLoader(config Config, n *normalizer.NameNormalizer, table *pricing.Table) *Loader {
	if config.DefaultYear == 0 {
		config.DefaultYear = DefaultYear
	}
	return &Loader{
		config:     config,
		normalizer: n,
		table:      table,
	}
}

// Load runs every step in order and returns the merged audit
func (l *Loader) Load() *types.LoadAudit {
	audit := types.NewLoadAudit()
	for _, step := range l.config.Steps() {
		audit.Merge(l.RunStep(step))
	}
	return audit
}

// RunStep loads every file of one step. A missing directory contributes nothing.
func (l *Loader) RunStep(step Step) *types.LoadAudit {
	audit := types.NewLoadAudit()
	log := logging.With(zap.Stringer("format", step.Format), logging.Dir(step.Dir))
	if step.Format != FormatFlat {
		log = log.With(logging.Category(step.Category))
	}

	if !source.IsDir(step.Dir) {
		log.Warn("price directory not found")
		return audit
	}
	files, err := source.ListFiles(step.Dir)
	if err != nil {
		log.Warn("cannot list price directory", zap.Error(err))
		return audit
	}

	log.Info("loading prices", zap.Int("files", len(files)))
	load := fileLoaders[step.Format]
	for _, path := range files {
		audit.Merge(load(l, path, step.Category))
	}
	return audit
}

// insert applies the table precedence rule and counts the outcome
func (l *Loader) insert(audit *types.LoadAudit, key types.PriceKey, price types.Price) {
	audit.Record(key.Category, l.table.Insert(key, price))
}

// readRows reads a file, recording a whole-file error on failure
func (l *Loader) readRows(audit *types.LoadAudit, path string) ([]source.Row, bool) {
	rows, err := source.ReadRows(path, l.config.Source)
	if err != nil {
		logging.Warn("cannot read price file", logging.File(path), zap.Error(err))
		audit.AddError(filepath.Base(path), 0, "cannot read file: %v", err)
		return nil, false
	}
	return rows, true
}
