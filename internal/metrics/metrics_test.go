package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountBy_FirstAppearanceOrder(t *testing.T) {
	body := "lon,lat,Unique Squirrel ID,Primary Fur Color\n" +
		"1,1,a,Gray\n1,1,b,\n1,1,c,Cinnamon\n1,1,d,Gray\n1,1,e,NA\n"
	ds, err := dataset.Parse(strings.NewReader(body), "c.csv", "c.csv", dataset.DefaultOptions())
	require.NoError(t, err)

	got, err := CountBy(ds, "Primary Fur Color")
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Value: "Gray", Count: 2},
		{Value: dataset.Missing, Count: 2},
		{Value: "Cinnamon", Count: 1},
	}, got)

	_, err = CountBy(ds, "Age")
	var uc *layers.UnknownColumnError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownColumnError, got %v", err)
	}
}

func TestCompute_CensusFigures(t *testing.T) {
	cards := Compute(layers.Summary{Total: 3023, Delta: 650, Categories: 3}, DefaultOptions())
	require.Len(t, cards, 3)

	assert.Equal(t, "Number of recorded squirrels", cards[0].Label)
	assert.Equal(t, "3023", cards[0].FormatValue())
	assert.Equal(t, "+650", cards[0].FormatDelta())

	assert.Equal(t, "8.64", cards[1].FormatValue())
	assert.Equal(t, "+1.86", cards[1].FormatDelta())

	assert.Equal(t, "3", cards[2].FormatValue())
	assert.Equal(t, "", cards[2].FormatDelta())
	assert.Equal(t, "Number of primary colors: 3", cards[2].String())
}

func TestCompute_NegativeDelta(t *testing.T) {
	cards := Compute(layers.Summary{Total: 2000, Categories: 3}, DefaultOptions())
	assert.Equal(t, "-373", cards[0].FormatDelta())
	assert.Equal(t, "-1.07", cards[1].FormatDelta())
	assert.Equal(t, "Number of recorded squirrels: 2000 (-373)", cards[0].String())
}

func TestCompute_WithoutArea(t *testing.T) {
	opt := DefaultOptions()
	opt.ParkHectares = 0
	cards := Compute(layers.Summary{Total: 10, Categories: 2}, opt)
	require.Len(t, cards, 2)
	assert.Equal(t, opt.CategoriesLabel, cards[1].Label)
}

func TestEmpty(t *testing.T) {
	for _, m := range Empty(DefaultOptions()) {
		assert.Zero(t, m.Value)
		assert.Nil(t, m.Delta)
	}
}
