package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgrid/core/engine"
	"tollgrid/core/matrix"
	"tollgrid/core/types"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("html")
	assert.Error(t, err)
}

func TestPricesText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, PricesResult{Query: "X"}))
	assert.Equal(t, "No prices found for X\n", buf.String())

	buf.Reset()
	result := PricesResult{Query: "PARIS", Prices: []types.PriceEntry{{
		Key:   types.PriceKey{Entry: "PARIS", Exit: "LYON", Category: types.CategoryCar},
		Price: types.Price{Value: types.NewCurrency(35, 50), Year: 2024, Source: "2024_A6.tsv"},
	}}}
	require.NoError(t, Render(&buf, FormatText, result))
	assert.Contains(t, buf.String(), "ENTRY")
	assert.Contains(t, buf.String(), "PARIS  LYON  Car       35.5   2024  2024_A6.tsv")
}

func TestPricesJSON(t *testing.T) {
	var buf bytes.Buffer
	result := PricesResult{Query: "PARIS", Prices: []types.PriceEntry{{
		Key:   types.PriceKey{Entry: "PARIS", Exit: "LYON", Category: types.CategoryMotorcycle},
		Price: types.Price{Value: types.NewCurrency(21, 0), Year: 2024},
	}}}
	require.NoError(t, Render(&buf, FormatJSON, result))

	var decoded PricesResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result, decoded)
	assert.Contains(t, buf.String(), `"value": 21,`)
}

func TestStationsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, StationsResult{Stations: []string{"LYON", "PARIS"}}))
	assert.Equal(t, "LYON\nPARIS\n", buf.String())
}

func TestCheckText(t *testing.T) {
	audit := types.NewLoadAudit()
	audit.Record(types.CategoryCar, types.OutcomeInserted)
	audit.AddError("f.tsv", 2, "bad")
	status := engine.Status{Prices: 1, ByCategory: map[types.Category]int{types.CategoryCar: 1}, Stations: 2}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, CheckResult{Status: status, Audit: audit}))
	assert.Equal(t, "Price table: 1 prices (1 cars, 0 motorcycles), 2 stations, 0 aliases\n"+
		"Loaded 1 cars and 0 motorcycles (0 replaced, 0 ignored, 1 errors)\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, FormatText, CheckResult{Status: status, Audit: audit, ShowErrors: true}))
	assert.Contains(t, buf.String(), "Errors:\n\tf.tsv:2: bad\n")
}

func TestBuildText(t *testing.T) {
	result := BuildResult{
		Input:  "tolls.json",
		Output: "out.json",
		Reports: []matrix.TollReport{
			{TollID: "A10", Audits: []types.MatrixAudit{{Category: types.CategoryCar, Found: 2, Obsolete: 1, ObsoleteFiles: []string{"2020_a.tsv"}}}},
			{TollID: "B", Skipped: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, result))
	assert.Equal(t, "Built matrices for 2 tolls from tolls.json\n"+
		"Toll A10\n"+
		"Car        : Found 2 prices, 1 obsolete, 0 not found\n"+
		"\tplease update 2020_a.tsv\n"+
		"Toll B: skipped, not priced by entry/exit matrix\n"+
		"Written out.json\n", buf.String())
}
