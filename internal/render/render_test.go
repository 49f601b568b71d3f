package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/KaramelBytes/census-cli/internal/metrics"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `X,Y,Unique Squirrel ID,Primary Fur Color,Specific Location,Other Activities
-73.90,40.70,a,Gray,tree,
-73.92,40.72,b,Gray,,running
,,c,Gray,,
-73.96,40.76,d,Black,rock,
-73.98,40.78,e,,,
`

func partition(t *testing.T) (*dataset.Dataset, *layers.Result) {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(sample), "s.csv", "s.csv", dataset.DefaultOptions())
	require.NoError(t, err)
	res, err := layers.Partition(ds, "Primary Fur Color", layers.DefaultPalette(), layers.DefaultOptions())
	require.NoError(t, err)
	return ds, res
}

func TestBuildDeck(t *testing.T) {
	ds, res := partition(t)
	sel, err := layers.Select(res, []string{"Gray", "Black"})
	require.NoError(t, err)

	d := BuildDeck(ds, sel, res.Centroid, DefaultViewOptions(), DefaultTooltip)
	require.Len(t, d.Layers, 2)
	assert.Equal(t, "Gray", d.Layers[0].ID)
	assert.Len(t, d.Layers[0].Data, 2, "unlocated record is not drawn")
	assert.Equal(t, 3, d.Points())
	assert.Equal(t, []uint8{130, 130, 130}, d.Layers[0].GetFillColor)
	require.NotNil(t, d.InitialViewState.Latitude)
	assert.InDelta(t, 40.74, *d.InitialViewState.Latitude, 1e-9)

	raw, err := d.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "road", decoded["mapStyle"])
	view := decoded["initialViewState"].(map[string]any)
	assert.Equal(t, 12.5, view["zoom"])
	layer := decoded["layers"].([]any)[0].(map[string]any)
	assert.Equal(t, "ScatterplotLayer", layer["@@type"])
	assert.Equal(t, "@@=[lon, lat]", layer["getPosition"])
	assert.Equal(t, 3.0, layer["radiusScale"])
	point := layer["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "a", point["Unique Squirrel ID"])
	assert.Equal(t, dataset.Missing, point["Other Activities"])
	assert.Equal(t, -73.90, point["lon"])
	assert.Contains(t, decoded["tooltip"].(map[string]any)["text"], "{Unique Squirrel ID}")
}

func TestBuildDeck_NoCentroid(t *testing.T) {
	ds, _ := partition(t)
	d := BuildDeck(ds, nil, nil, DefaultViewOptions(), DefaultTooltip)
	assert.Equal(t, "undefined", d.InitialViewState.CenterLabel())
	raw, err := d.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "latitude")
	assert.Equal(t, 0, d.Points())
}

func TestGeoJSON(t *testing.T) {
	ds, res := partition(t)
	fc := GeoJSON(ds, res.Ordered())
	require.Len(t, fc.Features, 3)
	f := fc.Features[0]
	assert.Equal(t, "a", f.ID)
	assert.Equal(t, "Gray", f.Properties["layer"])
	assert.Equal(t, "130,130,130", f.Properties["color"])

	raw, err := MarshalGeoJSON(fc)
	require.NoError(t, err)
	back, err := geojson.UnmarshalFeatureCollection(raw)
	require.NoError(t, err)
	assert.Len(t, back.Features, 3)
	assert.Equal(t, "Black", back.Features[2].Properties.MustString("layer"))
}

func TestBarChart_PNG(t *testing.T) {
	counts := []metrics.CategoryCount{{Value: "Gray", Count: 3}, {Value: dataset.Missing, Count: 1}, {Value: "Black", Count: 1}}
	var buf bytes.Buffer
	opt := DefaultChartOptions()
	opt.Title = "Primary Fur Color"
	require.NoError(t, BarChart(&buf, counts, layers.DefaultPalette(), opt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "expected PNG output")
}

func TestBarChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BarChart(&buf, nil, layers.DefaultPalette(), DefaultChartOptions()))
	assert.NotZero(t, buf.Len())
}

func TestHTMLMap(t *testing.T) {
	page, err := HTMLMap("Squirrels <3", []byte(`{"mapStyle":"road","layers":[]}`), 0)
	require.NoError(t, err)
	s := string(page)
	assert.Contains(t, s, "deck.gl@8.9.35")
	assert.Contains(t, s, `const layout = {"mapStyle":"road","layers":[]};`)
	assert.Contains(t, s, "Squirrels &lt;3")
	assert.Contains(t, s, "height: 500px")
}
