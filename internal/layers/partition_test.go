package layers

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `lon,lat,Unique Squirrel ID,Primary Fur Color
-73.90,40.70,a,Gray
-73.92,40.72,b,Gray
-73.94,40.74,c,Cinnamon
-73.96,40.76,d,Black
-73.98,40.78,e,
-74.00,40.80,f,gray
`

func load(t *testing.T, body string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(body), "s.csv", "s.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds
}

func layerIDs(ds *dataset.Dataset, l *Layer) []string {
	out := make([]string, 0, l.Len())
	for _, r := range l.Records {
		out = append(out, ds.ID(r))
	}
	return out
}

func TestPartition_ExactMatchLayers(t *testing.T) {
	ds := load(t, sample)
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)

	got := map[string][]string{}
	for _, l := range res.Ordered() {
		got[l.Label] = layerIDs(ds, l)
	}
	want := map[string][]string{
		"Gray":     {"a", "b"},
		"Cinnamon": {"c"},
		"Black":    {"d"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layers mismatch (-want +got):\n%s", diff)
	}
	// "None" and the lower-case "gray" belong to no layer.
	assert.Equal(t, 2, res.Unmatched)
	assert.Equal(t, Summary{Total: 6, Delta: 6 - 2373, Categories: 3}, res.Summary)

	gray := res.Layers["Gray"]
	assert.Equal(t, RGB{130, 130, 130}, gray.Color)
	assert.Equal(t, DefaultStyle(), gray.Style)
}

func TestPartition_LayersAreDisjointAndBounded(t *testing.T) {
	ds := load(t, sample)
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)

	seen := map[int]string{}
	sum := 0
	for _, l := range res.Ordered() {
		for _, r := range l.Records {
			if prev, dup := seen[r.Row]; dup {
				t.Fatalf("row %d in both %s and %s", r.Row, prev, l.Label)
			}
			seen[r.Row] = l.Label
			v, _ := ds.Value(r, "Primary Fur Color")
			assert.Equal(t, l.Label, v)
		}
		sum += l.Len()
	}
	assert.LessOrEqual(t, sum, res.Summary.Total)
	assert.Equal(t, res.Summary.Total, sum+res.Unmatched)
}

func TestPartition_CentroidCoversAllRecords(t *testing.T) {
	ds := load(t, sample)
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Centroid)

	// Unmatched records still pull the centroid.
	assert.InDelta(t, -73.95, res.Centroid.Lon(), 1e-9)
	assert.InDelta(t, 40.75, res.Centroid.Lat(), 1e-9)
	assert.Equal(t, 6, res.Centroid.Points)
	assert.InDelta(t, -74.00, res.Centroid.Bound.Min.Lon(), 1e-9)
	assert.InDelta(t, 40.80, res.Centroid.Bound.Max.Lat(), 1e-9)
}

func TestPartition_CentroidSkipsUnlocated(t *testing.T) {
	ds := load(t, "lon,lat,Unique Squirrel ID,Primary Fur Color\n-73.0,40.0,a,Gray\n,,b,Gray\n-75.0,42.0,c,Black\n")
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Centroid)
	assert.InDelta(t, -74.0, res.Centroid.Lon(), 1e-9)
	assert.InDelta(t, 41.0, res.Centroid.Lat(), 1e-9)
	assert.Equal(t, 2, res.Layers["Gray"].Len())
	assert.Len(t, res.Layers["Gray"].Located(), 1)

	ds = load(t, "lon,lat,Unique Squirrel ID,Primary Fur Color\n,,a,Gray\n")
	res, err = Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, res.Centroid)
}

func TestPartition_Errors(t *testing.T) {
	ds := load(t, sample)
	_, err := Partition(ds, "Fur", DefaultPalette(), DefaultOptions())
	var uc *UnknownColumnError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownColumnError, got %v", err)
	}
	assert.Equal(t, "Fur", uc.Column)

	empty := load(t, "lon,lat,Unique Squirrel ID,Primary Fur Color\n")
	_, err = Partition(empty, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	dup := Palette{{Label: "Gray"}, {Label: "Gray", Color: RGB{1, 2, 3}}}
	_, err = Partition(ds, "Primary Fur Color", dup, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidPalette)
}

func TestPartition_IsDeterministic(t *testing.T) {
	ds := load(t, sample)
	a, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	b, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("partition not deterministic (-a +b):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	ds := load(t, sample)
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)

	sel, err := Select(res, []string{"Black", "Gray"})
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.Equal(t, "Gray", sel[0].Label, "selection follows palette order")
	assert.Equal(t, "Black", sel[1].Label)

	sel, err = Select(res, nil)
	require.NoError(t, err)
	assert.Empty(t, sel)

	_, err = Select(res, []string{"White"})
	var ul *UnknownLabelError
	require.ErrorAs(t, err, &ul)
	assert.Equal(t, []string{"Gray", "Cinnamon", "Black"}, ul.Labels)
}

func TestPartition_ThreeRecordExample(t *testing.T) {
	ds := load(t, "lon,lat,Unique Squirrel ID,Primary Fur Color\n1,1,a,Gray\n2,2,b,Gray\n3,3,c,Black\n")
	res, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Layers["Gray"].Len())
	assert.Equal(t, 1, res.Layers["Black"].Len())
	assert.Equal(t, 0, res.Layers["Cinnamon"].Len())
	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, 0, res.Unmatched)
	assert.InDelta(t, 2.0, res.Centroid.Lon(), 1e-9)
}

func TestPartition_CentroidIgnoresPalette(t *testing.T) {
	ds := load(t, sample)
	a, err := Partition(ds, "Primary Fur Color", DefaultPalette(), DefaultOptions())
	require.NoError(t, err)
	b, err := Partition(ds, "Primary Fur Color", Palette{{Label: "Black"}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Centroid, b.Centroid)
	assert.Equal(t, 1, b.Summary.Categories)
	assert.Equal(t, 5, b.Unmatched)
}
