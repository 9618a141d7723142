// Package ingestion - Triangle price files
package ingestion

import (
	"path/filepath"

	"go.uber.org/zap"

	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// loadTriangleFile loads a symmetric lower triangle. The last cell of row
// i names station i, and cell i of a later row j holds the price between
// stations i and j, which is stored in both directions.
func (l *Loader) loadTriangleFile(path string, category types.Category) *types.LoadAudit {
	audit := types.NewLoadAudit()
	name := filepath.Base(path)
	year := YearOf(name, l.config.DefaultYear)
	logging.Info("loading triangle file",
		logging.File(name),
		logging.Category(category),
		zap.Uint16("year", year))

	rows, ok := l.readRows(audit, path)
	if !ok {
		return audit
	}

	stations := make([]string, len(rows))
	for i, row := range rows {
		stations[i] = l.normalizer.Normalize(row.Last())
	}

	for i := range rows {
		entry := stations[i]
		for j := i + 1; j < len(rows); j++ {
			exit := stations[j]
			cells := rows[j].Cells
			if i >= len(cells)-1 {
				audit.AddError(name, rows[j].Line, "missing price for %s -> %s", entry, exit)
				continue
			}
			value, err := types.ParseLocalizedCurrency(cells[i])
			if err != nil {
				audit.AddError(name, rows[j].Line, "invalid price %q for %s -> %s", cells[i], entry, exit)
				continue
			}
			key := types.PriceKey{Entry: entry, Exit: exit, Category: category}
			price := types.Price{Value: value, Year: year, Source: name}
			l.insert(audit, key, price)
			l.insert(audit, key.Reverse(), price)
		}
	}
	return audit
}
