package layers

import (
	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/paulmach/orb"
)

// Style holds the scatter presentation constants shared by every layer.
type Style struct {
	Opacity         float64 `json:"opacity" yaml:"opacity"`
	Stroked         bool    `json:"stroked" yaml:"stroked"`
	Filled          bool    `json:"filled" yaml:"filled"`
	RadiusScale     float64 `json:"radiusScale" yaml:"radius_scale"`
	RadiusMinPixels float64 `json:"radiusMinPixels" yaml:"radius_min_pixels"`
	RadiusMaxPixels float64 `json:"radiusMaxPixels" yaml:"radius_max_pixels"`
	Radius          float64 `json:"getRadius" yaml:"radius"`
}

// DefaultStyle returns the scatter style of the census map.
func DefaultStyle() Style {
	return Style{
		Opacity:         1,
		Stroked:         true,
		Filled:          true,
		RadiusScale:     3,
		RadiusMinPixels: 5,
		RadiusMaxPixels: 100,
		Radius:          1,
	}
}

// Options controls partitioning.
type Options struct {
	// ReferenceCount is the historical total the summary delta is taken against.
	ReferenceCount int
	Style          Style
}

// DefaultOptions uses the 2373 squirrels reported on the census website.
func DefaultOptions() Options {
	return Options{ReferenceCount: 2373, Style: DefaultStyle()}
}

// Layer is the subset of records whose category equals Label.
type Layer struct {
	Label   string
	Color   RGB
	Style   Style
	Records []dataset.Record
}

// Len returns the number of records in the layer.
func (l *Layer) Len() int { return len(l.Records) }

// Located returns the records of the layer that carry coordinates.
func (l *Layer) Located() []dataset.Record {
	out := make([]dataset.Record, 0, len(l.Records))
	for _, r := range l.Records {
		if r.Located {
			out = append(out, r)
		}
	}
	return out
}

// Centroid frames the initial map view.
type Centroid struct {
	// Point is {lon, lat}.
	Point orb.Point
	Bound orb.Bound
	// Points is the number of located records averaged.
	Points int
}

func (c *Centroid) Lon() float64 { return c.Point.Lon() }
func (c *Centroid) Lat() float64 { return c.Point.Lat() }

// Summary holds the scalar counts of one partition.
type Summary struct {
	Total      int
	Delta      int
	Categories int
}

// Result is the outcome of Partition.
type Result struct {
	Column  string
	Palette Palette
	Layers  map[string]*Layer
	// Centroid is nil when no record carries coordinates.
	Centroid  *Centroid
	Summary   Summary
	Unmatched int
}

// Ordered returns the layers in palette order.
func (r *Result) Ordered() []*Layer {
	out := make([]*Layer, 0, len(r.Palette))
	for _, c := range r.Palette {
		out = append(out, r.Layers[c.Label])
	}
	return out
}

// Partition splits ds into one layer per palette label by exact string
// equality on column. Records matching no label, including the Missing
// sentinel, belong to no layer but still count toward the total and the
// centroid.
func Partition(ds *dataset.Dataset, column string, palette Palette, opt Options) (*Result, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	idx, ok := ds.ColumnIndex(column)
	if !ok {
		return nil, &UnknownColumnError{Column: column, Available: ds.Columns}
	}
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	res := &Result{
		Column:   column,
		Palette:  palette,
		Layers:   make(map[string]*Layer, len(palette)),
		Centroid: ComputeCentroid(ds),
		Summary: Summary{
			Total:      ds.Len(),
			Delta:      ds.Len() - opt.ReferenceCount,
			Categories: len(palette),
		},
	}
	for _, c := range palette {
		res.Layers[c.Label] = &Layer{Label: c.Label, Color: c.Color, Style: opt.Style}
	}
	for _, rec := range ds.Records {
		if l, ok := res.Layers[rec.Values[idx]]; ok {
			l.Records = append(l.Records, rec)
			continue
		}
		res.Unmatched++
	}
	return res, nil
}

// ComputeCentroid averages the position of every located record in ds.
// It returns nil when there is none.
func ComputeCentroid(ds *dataset.Dataset) *Centroid {
	var (
		sumLon, sumLat float64
		pts            orb.MultiPoint
	)
	for _, r := range ds.Records {
		if !r.Located {
			continue
		}
		sumLon += r.Position.Lon()
		sumLat += r.Position.Lat()
		pts = append(pts, r.Position)
	}
	if len(pts) == 0 {
		return nil
	}
	n := float64(len(pts))
	return &Centroid{
		Point:  orb.Point{sumLon / n, sumLat / n},
		Bound:  pts.Bound(),
		Points: len(pts),
	}
}

// Select returns the layers named in labels, in palette order. It replaces
// interactive toggle state with an explicit parameter.
func Select(res *Result, labels []string) ([]*Layer, error) {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		if _, ok := res.Layers[l]; !ok {
			return nil, &UnknownLabelError{Label: l, Labels: res.Palette.Labels()}
		}
		want[l] = true
	}
	out := make([]*Layer, 0, len(want))
	for _, c := range res.Palette {
		if want[c.Label] {
			out = append(out, res.Layers[c.Label])
		}
	}
	return out, nil
}
