// Package matrix projects the price table onto the stations of a toll.
package matrix

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"tollgrid/core/normalizer"
	"tollgrid/core/pricing"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// Builder fills entry/exit matrices from a finished price table
type Builder struct {
	table      *pricing.Table
	normalizer *normalizer.NameNormalizer
	now        func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithClock overrides the clock used to decide whether a price is obsolete
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a builder reading from table
func NewBuilder(table *pricing.Table, n *normalizer.NameNormalizer, opts ...Option) *Builder {
	b := &Builder{
		table:      table,
		normalizer: n,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the matrix of category for sections, in section order.
// Cell (i, j) is the price from section i to section j, or 0 when the two
// sections are the same station or the route is unknown.
func (b *Builder) Build(sections []tollfile.Section, category types.Category) (tollfile.Matrix, types.MatrixAudit) {
	audit := types.MatrixAudit{Category: category}
	currentYear := b.now().Year()
	obsolete := make(map[string]struct{})

	stations := make([]string, len(sections))
	for i, s := range sections {
		stations[i] = b.normalizer.Normalize(s.SectionID)
	}

	prices := make([][]types.Currency, len(stations))
	for i, entry := range stations {
		row := make([]types.Currency, len(stations))
		for j, exit := range stations {
			if entry == exit {
				continue
			}
			key := types.PriceKey{Entry: entry, Exit: exit, Category: category}
			price, ok := b.table.Get(key)
			if !ok {
				audit.NotFound++
				audit.Missing = append(audit.Missing, key)
				continue
			}
			row[j] = price.Value
			audit.Found++
			if int(price.Year) < currentYear {
				audit.Obsolete++
				obsolete[price.Source] = struct{}{}
			}
		}
		prices[i] = row
	}

	for file := range obsolete {
		audit.ObsoleteFiles = append(audit.ObsoleteFiles, file)
	}
	sort.Strings(audit.ObsoleteFiles)

	return tollfile.Matrix{
		FriendlyName:    category.String(),
		MatrixPrices:    prices,
		PermitID:        "",
		LimitToVehicles: category.Vehicles(),
	}, audit
}

// TollReport describes what UpdateToll did to one toll
type TollReport struct {
	TollID string `json:"toll_id"`

	// Skipped is set when the toll rules do not call for an entry/exit matrix
	Skipped bool `json:"skipped"`

	// Audits holds one audit per category, car first
	Audits []types.MatrixAudit `json:"audits,omitempty"`
}

// String renders the per-category audits under a toll heading
func (r TollReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Toll %s", r.TollID)
	if r.Skipped {
		sb.WriteString(": skipped, not priced by entry/exit matrix")
		return sb.String()
	}
	for _, audit := range r.Audits {
		sb.WriteString("\n")
		sb.WriteString(audit.String())
	}
	return sb.String()
}

// UpdateToll rebuilds the car and motorcycle matrices of toll in place.
// Tolls whose rules are not exactly ["entry_exit_price"] are left untouched.
func (b *Builder) UpdateToll(toll *tollfile.Toll) TollReport {
	report := TollReport{TollID: toll.TollID}
	if !toll.UsesEntryExitPricing() {
		logging.Debug("toll skipped", zap.String("toll_id", toll.TollID), zap.Strings("rules", toll.Rules))
		report.Skipped = true
		return report
	}
	logging.Debug("building toll matrices", zap.String("toll_id", toll.TollID), zap.Strings("sections", toll.SectionIDs()))

	matrices := make([]tollfile.Matrix, 0, len(types.AllCategories()))
	for _, category := range types.AllCategories() {
		m, audit := b.Build(toll.Sections, category)
		matrices = append(matrices, m)
		report.Audits = append(report.Audits, audit)
		logging.Info("matrix built",
			zap.String("toll_id", toll.TollID),
			logging.Category(category),
			zap.Int("found", audit.Found),
			zap.Int("obsolete", audit.Obsolete),
			zap.Int("not_found", audit.NotFound))
	}
	toll.EntryExitMatrix = matrices
	return report
}

// UpdateDocument rebuilds every toll of doc and returns one report per toll
func (b *Builder) UpdateDocument(doc *tollfile.Document) []TollReport {
	reports := make([]TollReport, 0, len(doc.Tolls))
	for i := range doc.Tolls {
		reports = append(reports, b.UpdateToll(&doc.Tolls[i]))
	}
	return reports
}
