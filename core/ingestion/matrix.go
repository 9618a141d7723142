// Package ingestion - Matrix price files
package ingestion

import (
	"path/filepath"

	"go.uber.org/zap"

	"tollgrid/core/types"
	"tollgrid/internal/logging"
)

// loadMatrixFile loads an entry x exit grid. Row 0 names the exits from
// column 1 on; every other row starts with its entry station. A row whose
// width differs from the header is rejected as a whole.
func (l *Loader) loadMatrixFile(path string, category types.Category) *types.LoadAudit {
	audit := types.NewLoadAudit()
	name := filepath.Base(path)
	year := YearOf(name, l.config.DefaultYear)
	logging.Info("loading matrix file",
		logging.File(name),
		logging.Category(category),
		zap.Uint16("year", year))

	rows, ok := l.readRows(audit, path)
	if !ok || len(rows) == 0 {
		return audit
	}

	header := rows[0].Cells
	exits := make([]string, len(header))
	for column := 1; column < len(header); column++ {
		exits[column] = l.normalizer.Normalize(header[column])
	}

	for _, row := range rows[1:] {
		if len(row.Cells) != len(header) {
			audit.AddError(name, row.Line, "invalid line length for %s: %d columns, header has %d",
				row.Cells[0], len(row.Cells), len(header))
			continue
		}
		entry := l.normalizer.Normalize(row.Cells[0])
		for column := 1; column < len(row.Cells); column++ {
			exit := exits[column]
			value, err := types.ParseLocalizedCurrency(row.Cells[column])
			if err != nil {
				// diagonal cells are often left blank or dashed
				if entry != exit {
					audit.AddError(name, row.Line, "invalid price %q for %s -> %s", row.Cells[column], entry, exit)
				}
				continue
			}
			l.insert(audit,
				types.PriceKey{Entry: entry, Exit: exit, Category: category},
				types.Price{Value: value, Year: year, Source: name})
		}
	}
	return audit
}
