// Package types - Load and matrix audit types
package types

import (
	"fmt"
	"strings"
)

// LoadError is a single source record that could not be loaded
type LoadError struct {
	// File is the source file name
	File string `json:"file"`

	// Line is the 1-based line number, 0 when the whole file was rejected
	Line int `json:"line"`

	// Message describes the problem
	Message string `json:"message"`
}

// String renders the error as "file:line: message"
func (e LoadError) String() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// LoadCounts tallies insertion outcomes for one category
type LoadCounts struct {
	Loaded   int `json:"loaded"`
	Replaced int `json:"replaced"`
	Ignored  int `json:"ignored"`
}

// LoadAudit accumulates insertion counts and per-record errors.
// Merging never drops entries.
type LoadAudit struct {
	Counts map[Category]LoadCounts `json:"counts"`
	Errors []LoadError             `json:"errors,omitempty"`
}

// NewLoadAudit creates an empty audit
func NewLoadAudit() *LoadAudit {
	return &LoadAudit{Counts: make(map[Category]LoadCounts)}
}

// Record counts an insertion outcome
func (a *LoadAudit) Record(category Category, outcome Outcome) {
	if a.Counts == nil {
		a.Counts = make(map[Category]LoadCounts)
	}
	counts := a.Counts[category]
	switch outcome {
	case OutcomeInserted:
		counts.Loaded++
	case OutcomeReplaced:
		counts.Replaced++
	case OutcomeIgnored:
		counts.Ignored++
	}
	a.Counts[category] = counts
}

// AddError appends a formatted load error
func (a *LoadAudit) AddError(file string, line int, format string, args ...interface{}) {
	a.Errors = append(a.Errors, LoadError{
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge adds other's counters and appends its errors in order
func (a *LoadAudit) Merge(other *LoadAudit) {
	if other == nil {
		return
	}
	if a.Counts == nil {
		a.Counts = make(map[Category]LoadCounts)
	}
	for category, c := range other.Counts {
		counts := a.Counts[category]
		counts.Loaded += c.Loaded
		counts.Replaced += c.Replaced
		counts.Ignored += c.Ignored
		a.Counts[category] = counts
	}
	a.Errors = append(a.Errors, other.Errors...)
}

// Loaded returns the number of new keys loaded for a category
func (a *LoadAudit) Loaded(category Category) int {
	return a.Counts[category].Loaded
}

// HasErrors reports whether any record failed
func (a *LoadAudit) HasErrors() bool {
	return len(a.Errors) > 0
}

// Summary renders the counts only
func (a *LoadAudit) Summary() string {
	car := a.Counts[CategoryCar]
	moto := a.Counts[CategoryMotorcycle]
	return fmt.Sprintf("Loaded %d cars and %d motorcycles (%d replaced, %d ignored, %d errors)",
		car.Loaded, moto.Loaded, car.Replaced+moto.Replaced, car.Ignored+moto.Ignored, len(a.Errors))
}

// String renders the counts followed by one "file:line: message" per error
func (a *LoadAudit) String() string {
	var sb strings.Builder
	sb.WriteString(a.Summary())
	if len(a.Errors) > 0 {
		sb.WriteString("\nErrors:")
		for _, e := range a.Errors {
			sb.WriteString("\n\t")
			sb.WriteString(e.String())
		}
	}
	return sb.String()
}

// MatrixAudit reports how a matrix was filled
type MatrixAudit struct {
	// Category is the matrix category
	Category Category `json:"category"`

	// Found counts cells filled from the price table
	Found int `json:"found"`

	// NotFound counts off-diagonal cells with no known price
	NotFound int `json:"not_found"`

	// Obsolete counts found cells priced before the current year
	Obsolete int `json:"obsolete"`

	// ObsoleteFiles lists each source file holding an obsolete price once, sorted
	ObsoleteFiles []string `json:"obsolete_files,omitempty"`

	// Missing lists the routes with no known price, in matrix order
	Missing []PriceKey `json:"missing,omitempty"`
}

// String renders the counts and the obsolete files
func (a MatrixAudit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-10s : Found %d prices, %d obsolete, %d not found",
		a.Category, a.Found, a.Obsolete, a.NotFound)
	for _, file := range a.ObsoleteFiles {
		sb.WriteString("\n\tplease update ")
		sb.WriteString(file)
	}
	return sb.String()
}
