package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgrid/core/engine"
	"tollgrid/core/matrix"
	"tollgrid/core/normalizer"
	"tollgrid/core/pricing"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
)

// fakeEngine answers from an in-memory table
type fakeEngine struct {
	table   *pricing.Table
	builder *matrix.Builder
	audit   *types.LoadAudit
}

func newFakeEngine() *fakeEngine {
	table := pricing.NewTable()
	for _, p := range []struct {
		entry, exit string
		category    types.Category
		cents       int64
	}{
		{"PARIS", "LYON", types.CategoryCar, 3550},
		{"PARIS", "LYON", types.CategoryMotorcycle, 2100},
		{"LYON", "PARIS", types.CategoryCar, 3550},
	} {
		table.Insert(types.PriceKey{Entry: p.entry, Exit: p.exit, Category: p.category},
			types.Price{Value: types.NewCurrencyFromCents(p.cents), Year: 2024, Source: "2024_A6.tsv"})
	}
	audit := types.NewLoadAudit()
	audit.Record(types.CategoryCar, types.OutcomeInserted)
	audit.AddError("2024_A6.tsv", 3, "invalid price %q", "x")

	n := normalizer.New(nil)
	return &fakeEngine{
		table: table,
		builder: matrix.NewBuilder(table, n, matrix.WithClock(func() time.Time {
			return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		})),
		audit: audit,
	}
}

func (f *fakeEngine) RunID() string { return "run-1" }

func (f *fakeEngine) GetPrices(entry string) []types.PriceEntry {
	return f.table.PricesFrom(strings.ToUpper(entry))
}

func (f *fakeEngine) GetStations(name string) []string {
	return f.table.Stations(strings.ToUpper(name))
}

func (f *fakeEngine) CheckPrices() (engine.Status, *types.LoadAudit) {
	return engine.Status{RunID: "run-1", Prices: f.table.Len(), Errors: len(f.audit.Errors)}, f.audit
}

func (f *fakeEngine) RebuildDocument(doc *tollfile.Document) []matrix.TollReport {
	return f.builder.UpdateDocument(doc)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthAndVersion(t *testing.T) {
	s := NewServer("1.2.3", newFakeEngine())

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	var health map[string]interface{}
	decode(t, rec, &health)
	assert.Equal(t, "healthy", health["status"])

	rec = do(t, s, http.MethodGet, "/version", "")
	var version map[string]string
	decode(t, rec, &version)
	assert.Equal(t, "1.2.3", version["version"])
	assert.Equal(t, "tollgrid", version["engine"])
}

func TestPrices(t *testing.T) {
	s := NewServer("dev", newFakeEngine())

	rec := do(t, s, http.MethodGet, "/prices?entry=par", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PricesResponse
	decode(t, rec, &resp)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, PriceRow{
		Entry: "PARIS", Exit: "LYON", Category: types.CategoryCar,
		Price: types.NewCurrency(35, 50), Year: 2024, Source: "2024_A6.tsv",
	}, resp.Prices[0])
	assert.Equal(t, types.CategoryMotorcycle, resp.Prices[1].Category)
}

func TestPricesRequiresEntry(t *testing.T) {
	s := NewServer("dev", newFakeEngine())

	rec := do(t, s, http.MethodGet, "/prices", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "MISSING_PARAMETER", resp.Error.Code)
}

func TestStations(t *testing.T) {
	s := NewServer("dev", newFakeEngine())

	var resp StationsResponse
	decode(t, do(t, s, http.MethodGet, "/stations", ""), &resp)
	assert.Equal(t, []string{"LYON", "PARIS"}, resp.Stations)

	decode(t, do(t, s, http.MethodGet, "/stations?name=zzz", ""), &resp)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, []string{}, resp.Stations)
}

func TestAudit(t *testing.T) {
	s := NewServer("dev", newFakeEngine())

	var resp AuditResponse
	decode(t, do(t, s, http.MethodGet, "/audit", ""), &resp)
	assert.Equal(t, 3, resp.Status.Prices)
	assert.Equal(t, "Loaded 1 cars and 0 motorcycles (0 replaced, 0 ignored, 1 errors)", resp.Summary)
	require.Len(t, resp.Audit.Errors, 1)
	assert.Equal(t, 3, resp.Audit.Errors[0].Line)
}

func TestMatrix(t *testing.T) {
	s := NewServer("dev", newFakeEngine())
	body := `{"tolls": [{"toll_id": "A6", "rules": ["entry_exit_price"], "entry_exit_matrix": [],
		"sections": [{"section_id": "Paris"}, {"section_id": "Lyon"}]}]}`

	rec := do(t, s, http.MethodPost, "/matrix", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MatrixResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, 2, resp.Reports[0].Audits[0].Found)
	assert.Equal(t, 1, resp.Reports[0].Audits[1].NotFound)
	assert.Equal(t, int64(3550), resp.Document.Tolls[0].EntryExitMatrix[0].MatrixPrices[0][1].InCents())
	assert.Equal(t, "run-1", resp.Metadata.RunID)
	assert.Len(t, resp.Metadata.InputHash, 64)
	assert.Contains(t, rec.Body.String(), "35.5")
}

func TestMatrixRejectsInvalidDocument(t *testing.T) {
	s := NewServer("dev", newFakeEngine())

	rec := do(t, s, http.MethodPost, "/matrix", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "INVALID_DOCUMENT", resp.Error.Code)
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestMatrixBodyErrors(t *testing.T) {
	s := NewServer("dev", newFakeEngine())
	s.maxBody = 8

	rec := do(t, s, http.MethodPost, "/matrix", `{"tolls":[]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "DOCUMENT_TOO_LARGE", resp.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/matrix", failingBody{})
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &resp)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := NewServer("dev", newFakeEngine())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestUnknownMethod(t *testing.T) {
	s := NewServer("dev", newFakeEngine())
	rec := do(t, s, http.MethodDelete, "/prices", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
