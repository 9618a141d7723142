package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgrid/core/normalizer"
	"tollgrid/core/pricing"
	"tollgrid/core/types"
)

// fixture lays out a price directory tree under a temp dir
type fixture struct {
	t    *testing.T
	root string
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, root: t.TempDir()}
}

func (f *fixture) write(rel, content string) string {
	f.t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *fixture) config() Config {
	return Config{
		FlatDir:     filepath.Join(f.root, "flat"),
		MatrixDir:   filepath.Join(f.root, "matrix"),
		TriangleDir: filepath.Join(f.root, "triangle"),
	}
}

func (f *fixture) loader() (*Loader, *pricing.Table) {
	table := pricing.NewTable()
	return NewLoader(f.config(), normalizer.New(nil), table), table
}

func carKey(entry, exit string) types.PriceKey {
	return types.PriceKey{Entry: entry, Exit: exit, Category: types.CategoryCar}
}

func motoKey(entry, exit string) types.PriceKey {
	return types.PriceKey{Entry: entry, Exit: exit, Category: types.CategoryMotorcycle}
}

func mustGet(t *testing.T, table *pricing.Table, key types.PriceKey) types.Price {
	t.Helper()
	p, ok := table.Get(key)
	require.True(t, ok, "missing %s", key)
	return p
}

func TestStepsFollowFixedOrder(t *testing.T) {
	steps := Config{FlatDir: "f", MatrixDir: "m", TriangleDir: "t"}.Steps()
	require.Len(t, steps, 5)

	assert.Equal(t, Step{Format: FormatFlat, Dir: "f"}, steps[0])
	assert.Equal(t, Step{Format: FormatMatrix, Category: types.CategoryCar, Dir: filepath.Join("m", "car")}, steps[1])
	assert.Equal(t, Step{Format: FormatMatrix, Category: types.CategoryMotorcycle, Dir: filepath.Join("m", "motorcycle")}, steps[2])
	assert.Equal(t, Step{Format: FormatTriangle, Category: types.CategoryCar, Dir: filepath.Join("t", "car")}, steps[3])
	assert.Equal(t, Step{Format: FormatTriangle, Category: types.CategoryMotorcycle, Dir: filepath.Join("t", "motorcycle")}, steps[4])
}

func TestLoadWithMissingDirectoriesIsEmpty(t *testing.T) {
	f := newFixture(t)
	loader, table := f.loader()

	audit := loader.Load()

	assert.Equal(t, 0, table.Len())
	assert.False(t, audit.HasErrors())
}

func TestLoadAppliesPrecedenceAcrossFormats(t *testing.T) {
	f := newFixture(t)
	// flat 2020: A->B car 1.50, moto 0.80
	f.write("flat/2020_X-1,2,3,4.tsv", "entry\texit\tcar\tmoto\nA\tB\t1,50\t0,80\n")
	// matrix 2020 overwrites the same-year flat car price
	f.write("matrix/car/2020_grid.tsv", "\tA\tB\nA\t0\t1,60\nB\t1,70\t0\n")
	// triangle 2019 is older than everything above and only adds B->C / C->B
	f.write("triangle/car/2019_tri.tsv", "A\n9\tB\n9\t4,20\tC\n")
	// triangle 2021 motorcycles overwrite the flat moto price in both directions
	f.write("triangle/motorcycle/2021_tri.tsv", "A\n1,10\tB\n")

	loader, table := f.loader()
	audit := loader.Load()

	assert.False(t, audit.HasErrors(), audit.String())

	ab := mustGet(t, table, carKey("A", "B"))
	assert.Equal(t, int64(160), ab.Value.InCents())
	assert.Equal(t, "2020_grid.tsv", ab.Source)

	assert.Equal(t, int64(170), mustGet(t, table, carKey("B", "A")).Value.InCents())
	assert.Equal(t, int64(420), mustGet(t, table, carKey("B", "C")).Value.InCents())
	assert.Equal(t, int64(420), mustGet(t, table, carKey("C", "B")).Value.InCents())

	moto := mustGet(t, table, motoKey("A", "B"))
	assert.Equal(t, int64(110), moto.Value.InCents())
	assert.Equal(t, uint16(2021), moto.Year)
	assert.Equal(t, int64(110), mustGet(t, table, motoKey("B", "A")).Value.InCents())

	car := audit.Counts[types.CategoryCar]
	// new keys: flat A->B, matrix A->A, B->A, B->B, triangle A->C, C->A, B->C, C->B
	assert.Equal(t, 8, car.Loaded)
	// matrix A->B over flat
	assert.Equal(t, 1, car.Replaced)
	// triangle 2019 A->B and B->A lose to the 2020 prices
	assert.Equal(t, 2, car.Ignored)
}
