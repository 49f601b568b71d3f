package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/KaramelBytes/census-cli/internal/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartOptions sizes and labels the category bar chart.
type ChartOptions struct {
	Title  string
	XLabel string
	Width  vg.Length
	Height vg.Length
	// Format is an image format understood by gonum/plot ("png", "svg", "pdf").
	Format string
}

// DefaultChartOptions matches the 10x5 inch figure of the census page.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 10 * vg.Inch, Height: 5 * vg.Inch, Format: "png"}
}

// neutral is used for values outside the palette, Missing included.
var neutral = color.RGBA{R: 102, G: 194, B: 165, A: 255}

// BarChart draws one bar per category count. Palette labels keep their
// layer color; other values are drawn in a neutral tone.
func BarChart(w io.Writer, counts []metrics.CategoryCount, palette layers.Palette, opt ChartOptions) error {
	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = "count"
	p.Y.Min = 0

	names := make([]string, len(counts))
	for i, c := range counts {
		bars, err := plotter.NewBarChart(plotter.Values{float64(c.Count)}, vg.Points(40))
		if err != nil {
			return fmt.Errorf("bar %q: %w", c.Value, err)
		}
		bars.XMin = float64(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = neutral
		if rgb, ok := palette.Lookup(c.Value); ok {
			bars.Color = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
		}
		p.Add(bars)
		names[i] = c.Value
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}

	width, height := opt.Width, opt.Height
	if width <= 0 || height <= 0 {
		d := DefaultChartOptions()
		width, height = d.Width, d.Height
	}
	format := opt.Format
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
