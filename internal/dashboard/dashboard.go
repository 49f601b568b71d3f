package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/KaramelBytes/census-cli/internal/metrics"
	"github.com/KaramelBytes/census-cli/internal/render"
)

// Source loads a dataset. *dataset.Loader satisfies it.
type Source interface {
	Load(ctx context.Context, source string) (*dataset.Dataset, error)
}

// Options configures one dashboard run.
type Options struct {
	Title          string
	CategoryColumn string
	Palette        layers.Palette
	// Selected names the layers drawn on the map; nil selects every palette label.
	Selected []string
	Layers   layers.Options
	Metrics  metrics.Options
	View     render.ViewOptions
	Tooltip  string
	Chart    render.ChartOptions
}

// DefaultOptions returns the squirrel census dashboard.
func DefaultOptions() Options {
	chart := render.DefaultChartOptions()
	chart.Title = "Primary Fur Color"
	chart.XLabel = "Primary Fur Color"
	return Options{
		Title:          "The Central Park Squirrel Census",
		CategoryColumn: "Primary Fur Color",
		Palette:        layers.DefaultPalette(),
		Layers:         layers.DefaultOptions(),
		Metrics:        metrics.DefaultOptions(),
		View:           render.DefaultViewOptions(),
		Tooltip:        render.DefaultTooltip,
		Chart:          chart,
	}
}

// Dashboard is everything the renderers need for one run.
type Dashboard struct {
	Title   string
	Source  string
	Column  string
	Palette layers.Palette
	Dataset *dataset.Dataset
	Counts  []metrics.CategoryCount
	Metrics []metrics.Metric
	// Result is nil when the dataset is empty.
	Result   *layers.Result
	Selected []*layers.Layer
	Deck     *render.Deck
	Notes    []string

	opt Options
}

// Build loads source and runs partition, metrics and layer selection. An
// empty dataset is not an error: metrics are zero, there is no centroid,
// and the chart and map are empty.
func Build(ctx context.Context, src Source, source string, opt Options) (*Dashboard, error) {
	ds, err := src.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return FromDataset(ds, opt)
}

// FromDataset builds a dashboard from an already loaded dataset.
func FromDataset(ds *dataset.Dataset, opt Options) (*Dashboard, error) {
	d := &Dashboard{
		Title:   opt.Title,
		Source:  ds.Source,
		Column:  opt.CategoryColumn,
		Palette: opt.Palette,
		Dataset: ds,
		opt:     opt,
	}
	counts, err := metrics.CountBy(ds, opt.CategoryColumn)
	if err != nil {
		return nil, err
	}
	d.Counts = counts

	res, err := layers.Partition(ds, opt.CategoryColumn, opt.Palette, opt.Layers)
	switch {
	case errors.Is(err, layers.ErrEmptyDataset):
		d.Metrics = metrics.Empty(opt.Metrics)
		d.Notes = append(d.Notes, "dataset has no records; map centroid is undefined")
		d.Deck = render.BuildDeck(ds, nil, nil, opt.View, opt.Tooltip)
		return d, nil
	case err != nil:
		return nil, err
	}
	d.Result = res
	d.Metrics = metrics.Compute(res.Summary, opt.Metrics)

	selected := opt.Selected
	if selected == nil {
		selected = opt.Palette.Labels()
	}
	d.Selected, err = layers.Select(res, selected)
	if err != nil {
		return nil, err
	}
	d.Deck = render.BuildDeck(ds, d.Selected, res.Centroid, opt.View, opt.Tooltip)

	if res.Unmatched > 0 {
		d.Notes = append(d.Notes, fmt.Sprintf("%d records have a %s outside the palette (or %q) and are not drawn", res.Unmatched, opt.CategoryColumn, dataset.Missing))
	}
	if unlocated := ds.Len() - ds.Located(); unlocated > 0 {
		d.Notes = append(d.Notes, fmt.Sprintf("%d records lack coordinates and are left off the map", unlocated))
	}
	if res.Centroid == nil {
		d.Notes = append(d.Notes, "no record has coordinates; map centroid is undefined")
	}
	return d, nil
}
