// Package tollfile reads and writes toll definition documents.
// Only the entry/exit matrices are ever modified; every other field is
// passed through unchanged.
package tollfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"tollgrid/core/types"
	"tollgrid/internal/errors"
)

// RuleEntryExitPrice marks a toll priced by entry/exit matrix
const RuleEntryExitPrice = "entry_exit_price"

// Document is the top level of a toll definition file
type Document struct {
	Tolls []Toll `json:"tolls"`
}

// Toll is a tolled road and its pricing
type Toll struct {
	TollID        string   `json:"toll_id"`
	RoadLocalName string   `json:"road_local_name"`
	Currency      string   `json:"currency"`
	CurrencyCode  string   `json:"currency_code"`
	Polyline      string   `json:"polyline"`
	Type          string   `json:"type"`
	Rules         []string `json:"rules"`

	// EntryExitMatrix holds the car matrix at index 0 and the motorcycle matrix at index 1
	EntryExitMatrix []Matrix `json:"entry_exit_matrix"`

	// Sections are the stations of the toll, in matrix order
	Sections []Section `json:"sections"`
}

// UsesEntryExitPricing reports whether rules is exactly ["entry_exit_price"]
func (t *Toll) UsesEntryExitPricing() bool {
	return len(t.Rules) == 1 && t.Rules[0] == RuleEntryExitPrice
}

// SectionIDs returns the section ids in order
func (t *Toll) SectionIDs() []string {
	ids := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		ids[i] = s.SectionID
	}
	return ids
}

// Matrix is a dense entry x exit price grid for one vehicle category
type Matrix struct {
	FriendlyName    string             `json:"friendly_name"`
	MatrixPrices    [][]types.Currency `json:"matrix_prices"`
	PermitID        string             `json:"permit_id"`
	LimitToVehicles []string           `json:"limit_to_vehicles"`
}

// Section is a station of a toll
type Section struct {
	SectionID        string     `json:"section_id"`
	RoadLocalName    string     `json:"road_local_name"`
	SectionLocalName string     `json:"section_local_name"`
	Location         [2]float64 `json:"location"`
	Segments         []Segment  `json:"segments"`
}

// Segment is a map segment belonging to a section
type Segment struct {
	Permalink string `json:"permalink"`
	ID        uint64 `json:"id"`
	Forwards  bool   `json:"forwards"`
	FromNode  uint64 `json:"fromNode"`
	ToNode    uint64 `json:"toNode"`
}

// Load reads a toll definition file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Input("cannot read toll file "+path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, errors.Input("cannot parse toll file "+path, err)
	}
	return doc, nil
}

// Decode parses a toll definition document
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode renders doc with two-space indentation
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Internal("cannot encode toll file", err)
	}
	return append(data, '\n'), nil
}

// Write saves doc to path, creating the parent directory if needed
func Write(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.IO("cannot create "+dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.IO("cannot write "+path, err)
	}
	return nil
}
