// Package pricing - Sealing and content hashing
// Once loading is done the table is sealed: it can NEVER be written again,
// and its content hash identifies the exact price set a matrix was built from.
package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrImmutabilityViolation is raised when a sealed table is written to
var ErrImmutabilityViolation = errors.New("immutability violation: price table is sealed")

// Seal freezes the table. Any later Insert panics.
func (t *Table) Seal() {
	if t.sealed {
		return
	}
	t.sealed = true
	t.hash = t.computeHash()
}

// Sealed reports whether the table has been sealed
func (t *Table) Sealed() bool {
	return t.sealed
}

// ContentHash returns the SHA-256 of the table content in key order.
// Two tables holding the same prices with the same years and sources hash
// equally regardless of insertion order.
func (t *Table) ContentHash() string {
	if t.sealed {
		return t.hash
	}
	return t.computeHash()
}

func (t *Table) computeHash() string {
	h := sha256.New()
	for _, e := range t.PricesFrom("") {
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\x00%d\x00%s\n",
			e.Key.Entry, e.Key.Exit, e.Key.Category, e.Price.Value.InCents(), e.Price.Year, e.Price.Source)
	}
	return hex.EncodeToString(h.Sum(nil))
}
