// Package types - Pricing types
package types

import "fmt"

// PriceKey identifies a directed route price for one vehicle category
type PriceKey struct {
	// Entry is the normalized entry station
	Entry string `json:"entry"`

	// Exit is the normalized exit station
	Exit string `json:"exit"`

	// Category is the vehicle category
	Category Category `json:"category"`
}

// String renders the key as "Car ENTRY->EXIT"
func (k PriceKey) String() string {
	return fmt.Sprintf("%s %s->%s", k.Category, k.Entry, k.Exit)
}

// Reverse returns the key for the opposite direction
func (k PriceKey) Reverse() PriceKey {
	return PriceKey{Entry: k.Exit, Exit: k.Entry, Category: k.Category}
}

// Price is a known route price and where it came from
type Price struct {
	// Value is the toll amount
	Value Currency `json:"value"`

	// Year is the year the price list was published for
	Year uint16 `json:"year"`

	// Source is the file the price was read from. Diagnostic only.
	Source string `json:"source"`
}

// String renders the price as "2020 12.5"
func (p Price) String() string {
	return fmt.Sprintf("%d %s", p.Year, p.Value)
}

// Outcome describes what an insertion did to the price table
type Outcome int

const (
	// OutcomeInserted means the key was new
	OutcomeInserted Outcome = iota

	// OutcomeReplaced means an existing price of the same or an older year was overwritten
	OutcomeReplaced

	// OutcomeIgnored means a more recent price was already stored
	OutcomeIgnored
)

// String returns the string representation
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// PriceEntry is a key with its price, used for listings
type PriceEntry struct {
	Key   PriceKey `json:"key"`
	Price Price    `json:"price"`
}
