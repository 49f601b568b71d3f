package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/census-cli/internal/dashboard"
	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/KaramelBytes/census-cli/internal/render"
	"github.com/spf13/cobra"
)

// dataFlags are the source and partition flags shared by the data commands.
type dataFlags struct {
	column    string
	idColumn  string
	palette   string
	selected  []string
	delimiter string
	sheet     string
}

func (f *dataFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.column, "column", "", "category column (default from config)")
	c.Flags().StringVar(&f.idColumn, "id-column", "", "identifier column (default from config)")
	c.Flags().StringVar(&f.palette, "palette", "", "layer palette as 'Label=R,G,B;Label=R,G,B' (default from config)")
	c.Flags().StringSliceVar(&f.selected, "select", nil, "layers to draw on the map (repeatable; default all palette labels)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	c.Flags().StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
}

func (f *dataFlags) source(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config().Source
}

func (f *dataFlags) loader() (*dataset.Loader, error) {
	c := config()
	opt := c.LoaderOptions()
	if f.idColumn != "" {
		opt.IDColumn = f.idColumn
	}
	opt.Sheet = f.sheet
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	return dataset.NewLoader(opt, datasetCache, logger), nil
}

// dashboardOptions merges config and flags. An explicit --select "" selects
// no layer; leaving the flag out falls back to config, then to every layer.
func (f *dataFlags) dashboardOptions(cmd *cobra.Command) (dashboard.Options, error) {
	c := config()
	opt := dashboard.DefaultOptions()
	opt.Title = c.Title
	opt.CategoryColumn = c.CategoryColumn
	if f.column != "" {
		opt.CategoryColumn = f.column
	}
	opt.Chart.Title = opt.CategoryColumn
	opt.Chart.XLabel = opt.CategoryColumn

	pal := c.Palette
	if f.palette != "" {
		pal = f.palette
	}
	p, err := layers.ParsePalette(pal)
	if err != nil {
		return opt, err
	}
	opt.Palette = p
	opt.Metrics.CategoriesLabel = "Number of categories"
	if opt.CategoryColumn == "Primary Fur Color" {
		opt.Metrics.CategoriesLabel = "Number of primary colors"
	}

	switch {
	case cmd.Flags().Changed("select"):
		opt.Selected = trimAll(f.selected)
	case len(c.Selected) > 0:
		opt.Selected = c.Selected
	}

	opt.Layers.ReferenceCount = c.ReferenceCount
	opt.Metrics.ReferenceCount = c.ReferenceCount
	opt.Metrics.ParkHectares = c.ParkHectares
	opt.View = render.ViewOptions{MapStyle: c.MapStyle, Zoom: c.MapZoom, Pitch: c.MapPitch}
	if c.Tooltip != "" {
		opt.Tooltip = c.Tooltip
	}
	return opt, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
