package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const census = `X,Y,Unique Squirrel ID,Primary Fur Color,Specific Location,Other Activities
-73.90,40.70,a,Gray,tree,
-73.92,40.72,b,Cinnamon,,running
-73.94,40.74,c,Black,rock,
-73.96,40.76,d,,,
,,e,Gray,,
`

func writeCensus(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "census.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write census: %v", err)
	}
	return path
}

func TestBuild(t *testing.T) {
	path := writeCensus(t, census)
	ld := dataset.NewLoader(dataset.DefaultOptions(), nil, nil)
	d, err := Build(context.Background(), ld, path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, path, d.Source)
	assert.Equal(t, 5, d.Dataset.Len())
	require.NotNil(t, d.Result)
	assert.Len(t, d.Selected, 3, "nil selection draws every palette layer")
	assert.Equal(t, 3, d.Deck.Points())
	require.Len(t, d.Metrics, 3)
	assert.Equal(t, "5", d.Metrics[0].FormatValue())
	assert.Equal(t, "-2368", d.Metrics[0].FormatDelta())
	assert.Len(t, d.Notes, 2)

	md := d.Markdown()
	for _, section := range []string{"[DATASET SUMMARY]", "[NARRATIVE]", "[CATEGORY COUNTS]", "[METRICS]", "[LAYERS]", "[VIEW]", "[NOTES]"} {
		assert.Contains(t, md, section)
	}
	assert.Contains(t, md, "The census website mentions 2373, but the most recent data suggests 5.")
	assert.Contains(t, md, "- [x] Gray (rgb 130,130,130): 2")
	assert.Contains(t, md, "- None: 1")
	assert.Contains(t, md, "Unmatched: 1")
}

func TestBuild_Selection(t *testing.T) {
	path := writeCensus(t, census)
	ld := dataset.NewLoader(dataset.DefaultOptions(), nil, nil)
	opt := DefaultOptions()
	opt.Selected = []string{"Black"}
	d, err := Build(context.Background(), ld, path, opt)
	require.NoError(t, err)
	require.Len(t, d.Selected, 1)
	assert.Equal(t, "Black", d.Deck.Layers[0].ID)
	assert.Contains(t, d.Markdown(), "- [ ] Gray")

	opt.Selected = []string{}
	d, err = Build(context.Background(), ld, path, opt)
	require.NoError(t, err)
	assert.Empty(t, d.Deck.Layers)

	opt.Selected = []string{"White"}
	_, err = Build(context.Background(), ld, path, opt)
	var ul *layers.UnknownLabelError
	assert.ErrorAs(t, err, &ul)
}

func TestBuild_EmptyDatasetDegrades(t *testing.T) {
	path := writeCensus(t, "X,Y,Unique Squirrel ID,Primary Fur Color\n")
	ld := dataset.NewLoader(dataset.DefaultOptions(), nil, nil)
	d, err := Build(context.Background(), ld, path, DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, d.Result)
	assert.Empty(t, d.Counts)
	assert.Equal(t, "undefined", d.Deck.InitialViewState.CenterLabel())
	for _, m := range d.Metrics {
		assert.Zero(t, m.Value)
	}
	md := d.Markdown()
	assert.NotContains(t, md, "[NARRATIVE]")
	assert.Contains(t, md, "(none)")
}

func TestBuild_Errors(t *testing.T) {
	ld := dataset.NewLoader(dataset.DefaultOptions(), nil, nil)
	_, err := Build(context.Background(), ld, filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	var su *dataset.SourceUnavailableError
	assert.ErrorAs(t, err, &su)

	path := writeCensus(t, census)
	opt := DefaultOptions()
	opt.CategoryColumn = "Age"
	_, err = Build(context.Background(), ld, path, opt)
	var uc *layers.UnknownColumnError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownColumnError, got %v", err)
	}
}

func TestWrite(t *testing.T) {
	path := writeCensus(t, census)
	ld := dataset.NewLoader(dataset.DefaultOptions(), nil, nil)
	d, err := Build(context.Background(), ld, path, DefaultOptions())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	m, err := d.Write(out)
	require.NoError(t, err)
	assert.Equal(t, []string{SummaryFile, ChartFile, DeckFile, GeoJSONFile, MapFile, ManifestFile}, m.Files)
	assert.Equal(t, []string{"Gray", "Cinnamon", "Black"}, m.Layers)
	assert.NotEmpty(t, m.RunID)

	for _, f := range m.Files {
		info, err := os.Stat(filepath.Join(out, f))
		require.NoError(t, err, f)
		assert.NotZero(t, info.Size(), f)
		_, err = os.Stat(filepath.Join(out, f+".tmp"))
		assert.True(t, os.IsNotExist(err), "temp file left for %s", f)
	}

	raw, err := os.ReadFile(filepath.Join(out, ManifestFile))
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, m.RunID, back.RunID)
	assert.Equal(t, 5, back.Records)

	page, err := os.ReadFile(filepath.Join(out, MapFile))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(page), "ScatterplotLayer"))
}
