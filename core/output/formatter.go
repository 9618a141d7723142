// Package output renders command results for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"tollgrid/core/engine"
	"tollgrid/core/matrix"
	"tollgrid/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatText is human-readable text
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (text, json)", s)
	}
}

// Result is a command result that can render itself as text
type Result interface {
	// WriteText renders the result for a terminal
	WriteText(w io.Writer) error
}

// Render writes result in the requested format
func Render(w io.Writer, format Format, result Result) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return result.WriteText(w)
}

// PricesResult is the output of get-prices
type PricesResult struct {
	Query  string             `json:"query"`
	Prices []types.PriceEntry `json:"prices"`
}

// WriteText renders one route per line
func (r PricesResult) WriteText(w io.Writer) error {
	if len(r.Prices) == 0 {
		_, err := fmt.Fprintf(w, "No prices found for %s\n", r.Query)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tEXIT\tCATEGORY\tPRICE\tYEAR\tSOURCE")
	for _, p := range r.Prices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.Key.Entry, p.Key.Exit, p.Key.Category, p.Price.Value, p.Price.Year, p.Price.Source)
	}
	return tw.Flush()
}

// StationsResult is the output of get-station
type StationsResult struct {
	Query    string   `json:"query"`
	Stations []string `json:"stations"`
}

// WriteText renders one station per line
func (r StationsResult) WriteText(w io.Writer) error {
	if len(r.Stations) == 0 {
		_, err := fmt.Fprintf(w, "No station found for %s\n", r.Query)
		return err
	}
	for _, s := range r.Stations {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

// CheckResult is the output of check-prices
type CheckResult struct {
	Status engine.Status    `json:"status"`
	Audit  *types.LoadAudit `json:"audit"`

	// ShowErrors lists every load error in text output
	ShowErrors bool `json:"-"`
}

// WriteText renders the table size and the audit
func (r CheckResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Price table: %d prices (%d cars, %d motorcycles), %d stations, %d aliases\n",
		r.Status.Prices,
		r.Status.ByCategory[types.CategoryCar],
		r.Status.ByCategory[types.CategoryMotorcycle],
		r.Status.Stations,
		r.Status.Aliases)
	text := r.Audit.Summary()
	if r.ShowErrors {
		text = r.Audit.String()
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// BuildResult is the output of build-matrix
type BuildResult struct {
	Input   string              `json:"input"`
	Output  string              `json:"output"`
	Reports []matrix.TollReport `json:"reports"`
}

// WriteText renders one block per toll
func (r BuildResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Built matrices for %d tolls from %s\n", len(r.Reports), r.Input)
	for _, report := range r.Reports {
		fmt.Fprintln(w, report.String())
	}
	_, err := fmt.Fprintf(w, "Written %s\n", r.Output)
	return err
}
