package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgrid/core/matrix"
	"tollgrid/core/tollfile"
	"tollgrid/core/types"
	"tollgrid/internal/config"
	"tollgrid/internal/errors"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func fixtureConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	root := t.TempDir()
	write(t, root, "prices/alias.csv", "ST ARNOULT,SAINT ARNOULT\n")
	write(t, root, "prices/flat/2023_A10-1,2,3,4.tsv",
		"entry\texit\tcar\tmoto\nSt-Arnoult\tAllainville\t2,50\t1,50\nAllainville\tSaint Arnoult\t2,60\t1,60\nPoitiers\tTours\tx\t4\n")

	cfg := config.Default()
	cfg.SetPricesDir(filepath.Join(root, "prices"))
	return cfg, root
}

func newEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e, err := New(cfg, matrix.WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return e
}

func TestNewFailsWithoutAliasFile(t *testing.T) {
	cfg := config.Default()
	cfg.SetPricesDir(t.TempDir())

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeStartup))
}

func TestCheckPrices(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	e := newEngine(t, cfg)
	assert.NotEmpty(t, e.RunID())

	status, audit := e.CheckPrices()
	assert.Equal(t, 5, status.Prices)
	assert.Equal(t, 2, status.ByCategory[types.CategoryCar])
	assert.Equal(t, 3, status.ByCategory[types.CategoryMotorcycle])
	assert.Equal(t, 4, status.Stations)
	assert.Equal(t, 1, status.Aliases)
	assert.Equal(t, 1, status.Errors)
	assert.Len(t, status.TableHash, 64)

	require.Len(t, audit.Errors, 1)
	assert.Equal(t, 4, audit.Errors[0].Line)
	assert.Same(t, audit, e.Audit())
}

func TestQueriesAreNormalized(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	e := newEngine(t, cfg)

	prices := e.GetPrices("saint-arn")
	require.Len(t, prices, 2)
	assert.Equal(t, "SAINT ARNOULT", prices[0].Key.Entry)
	assert.Equal(t, types.CategoryCar, prices[0].Key.Category)
	assert.Equal(t, types.CategoryMotorcycle, prices[1].Key.Category)

	assert.Equal(t, []string{"SAINT ARNOULT"}, e.GetStations("st-arnoult"))
	assert.Equal(t, []string{"ALLAINVILLE", "POITIERS", "SAINT ARNOULT", "TOURS"}, e.GetStations(""))
	assert.Empty(t, e.GetPrices("nowhere"))
}

func TestBuildMatrix(t *testing.T) {
	cfg, root := fixtureConfig(t)
	e := newEngine(t, cfg)

	tollPath := write(t, root, "tolls.json", `{"tolls": [
  {"toll_id": "A10", "rules": ["entry_exit_price"], "entry_exit_matrix": [],
   "sections": [{"section_id": "Saint-Arnoult", "segments": []}, {"section_id": "Allainville", "segments": []}]},
  {"toll_id": "flat", "rules": ["flat_price"], "entry_exit_matrix": [], "sections": []}
]}`)
	outPath := filepath.Join(root, "out", "out.json")

	reports, err := e.BuildMatrix(tollPath, outPath)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.False(t, reports[0].Skipped)
	assert.True(t, reports[1].Skipped)

	car := reports[0].Audits[0]
	assert.Equal(t, 2, car.Found)
	assert.Equal(t, 2, car.Obsolete)
	assert.Equal(t, []string{"2023_A10-1,2,3,4.tsv"}, car.ObsoleteFiles)

	doc, err := tollfile.Load(outPath)
	require.NoError(t, err)
	prices := doc.Tolls[0].EntryExitMatrix[0].MatrixPrices
	assert.Equal(t, int64(250), prices[0][1].InCents())
	assert.Equal(t, int64(260), prices[1][0].InCents())
	assert.Equal(t, int64(160), doc.Tolls[0].EntryExitMatrix[1].MatrixPrices[1][0].InCents())
	assert.Empty(t, doc.Tolls[1].EntryExitMatrix)
}

func TestBuildMatrixInvalidTollFile(t *testing.T) {
	cfg, root := fixtureConfig(t)
	e := newEngine(t, cfg)

	outPath := filepath.Join(root, "out.json")
	_, err := e.BuildMatrix(write(t, root, "tolls.json", "not json"), outPath)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.NoFileExists(t, outPath)
}
