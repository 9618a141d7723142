// Package pricing holds the merged price table.
//
// Every loader inserts through Table.Insert so that one precedence rule
// applies across formats: a stored price is only kept when its year is
// strictly more recent than the incoming one. Equal years go to whichever
// insertion comes last, which makes the loader order significant.
package pricing

import (
	"sort"
	"strings"

	"tollgrid/core/types"
)

// Table maps directed routes to their most recent known price
type Table struct {
	prices   map[types.PriceKey]types.Price
	stations map[string]struct{}

	sealed bool
	hash   string
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{
		prices:   make(map[types.PriceKey]types.Price),
		stations: make(map[string]struct{}),
	}
}

// Insert stores price under key unless a strictly more recent price is already stored
func (t *Table) Insert(key types.PriceKey, price types.Price) types.Outcome {
	if t.sealed {
		panic(ErrImmutabilityViolation)
	}
	t.stations[key.Entry] = struct{}{}
	t.stations[key.Exit] = struct{}{}

	existing, ok := t.prices[key]
	if !ok {
		t.prices[key] = price
		return types.OutcomeInserted
	}
	if existing.Year > price.Year {
		return types.OutcomeIgnored
	}
	t.prices[key] = price
	return types.OutcomeReplaced
}

// Get returns the price stored for key
func (t *Table) Get(key types.PriceKey) (types.Price, bool) {
	price, ok := t.prices[key]
	return price, ok
}

// Len returns the number of stored routes
func (t *Table) Len() int {
	return len(t.prices)
}

// CountByCategory returns the number of stored routes per category
func (t *Table) CountByCategory() map[types.Category]int {
	counts := make(map[types.Category]int)
	for key := range t.prices {
		counts[key.Category]++
	}
	return counts
}

// PricesFrom returns every route whose entry station contains fragment,
// sorted by entry, exit and category
func (t *Table) PricesFrom(fragment string) []types.PriceEntry {
	var entries []types.PriceEntry
	for key, price := range t.prices {
		if strings.Contains(key.Entry, fragment) {
			entries = append(entries, types.PriceEntry{Key: key, Price: price})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if a.Entry != b.Entry {
			return a.Entry < b.Entry
		}
		if a.Exit != b.Exit {
			return a.Exit < b.Exit
		}
		return a.Category < b.Category
	})
	return entries
}

// Stations returns every known station containing fragment, sorted
func (t *Table) Stations(fragment string) []string {
	var names []string
	for name := range t.stations {
		if strings.Contains(name, fragment) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
