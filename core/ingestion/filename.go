// Package ingestion - Source file naming conventions
package ingestion

import (
	"path/filepath"
	"strconv"
	"strings"

	"tollgrid/core/types"
	"tollgrid/internal/errors"
)

// DefaultYear is used when a file name does not start with a year
const DefaultYear uint16 = 2019

// YearOf reads the year from the first four characters of a file name
func YearOf(name string, fallback uint16) uint16 {
	if len(name) < 4 {
		return fallback
	}
	year, err := strconv.ParseUint(name[:4], 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(year)
}

// FlatFileName is the column layout encoded in a flat price file name,
// e.g. 2020_APRR-1,2,4,8.tsv: entry, exit, car price and motorcycle price
// columns, 1-based in the name and 0-based here.
type FlatFileName struct {
	Name       string
	Year       uint16
	Entry      int
	Exit       int
	Car        int
	Motorcycle int
}

// ParseFlatFileName decodes the year and column layout of a flat price file
func ParseFlatFileName(name string, fallbackYear uint16) (FlatFileName, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	dash := strings.LastIndex(base, "-")
	if dash < 0 {
		return FlatFileName{}, errors.Format("missing '-' before column indices in " + name)
	}

	tokens := strings.Split(base[dash+1:], ",")
	if len(tokens) != 4 {
		return FlatFileName{}, errors.Format("expected 4 column indices in " + name + ", got " + strconv.Itoa(len(tokens)))
	}

	var columns [4]int
	for i, token := range tokens {
		index, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || index < 1 {
			return FlatFileName{}, errors.Format("invalid column index " + strconv.Quote(token) + " in " + name)
		}
		columns[i] = index - 1
	}

	return FlatFileName{
		Name:       name,
		Year:       YearOf(name, fallbackYear),
		Entry:      columns[0],
		Exit:       columns[1],
		Car:        columns[2],
		Motorcycle: columns[3],
	}, nil
}

// PriceColumn returns the 0-based price column for a category
func (f FlatFileName) PriceColumn(category types.Category) int {
	if category == types.CategoryMotorcycle {
		return f.Motorcycle
	}
	return f.Car
}
