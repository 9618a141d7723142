// Package ingestion - Flat price files
package ingestion

import (
	"path/filepath"

	"go.uber.org/zap"

	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// loadFlatFile loads one route per line after the header. The file name
// gives the year and the station and price columns; a name that does not
// follow the convention rejects the whole file.
func (l *Loader) loadFlatFile(path string, _ types.Category) *types.LoadAudit {
	audit := types.NewLoadAudit()
	name := filepath.Base(path)

	layout, err := ParseFlatFileName(name, l.config.DefaultYear)
	if err != nil {
		logging.Warn("skipping flat file", logging.File(name), zap.Error(err))
		audit.AddError(name, 0, "%v", err)
		return audit
	}
	logging.Info("loading flat file", logging.File(name), zap.Uint16("year", layout.Year))

	rows, ok := l.readRows(audit, path)
	if !ok || len(rows) == 0 {
		return audit
	}

	for _, row := range rows[1:] {
		cells := row.Cells
		if layout.Entry >= len(cells) || layout.Exit >= len(cells) {
			audit.AddError(name, row.Line, "missing station columns: %d columns", len(cells))
			continue
		}
		entry := l.normalizer.Normalize(cells[layout.Entry])
		exit := l.normalizer.Normalize(cells[layout.Exit])

		for _, category := range types.AllCategories() {
			column := layout.PriceColumn(category)
			if column >= len(cells) {
				audit.AddError(name, row.Line, "missing %s price column %d for %s -> %s", category, column+1, entry, exit)
				continue
			}
			value, err := types.ParseLocalizedCurrency(cells[column])
			if err != nil {
				audit.AddError(name, row.Line, "invalid %s price %q for %s -> %s", category, cells[column], entry, exit)
				continue
			}
			l.insert(audit,
				types.PriceKey{Entry: entry, Exit: exit, Category: category},
				types.Price{Value: value, Year: layout.Year, Source: name})
		}
	}
	return audit
}
