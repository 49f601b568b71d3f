package render

import (
	"fmt"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports the selected layers as one FeatureCollection of points.
// Each feature carries its layer label, fill color, and every cell.
func GeoJSON(ds *dataset.Dataset, selected []*layers.Layer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range selected {
		for _, r := range l.Located() {
			f := geojson.NewFeature(r.Position)
			f.ID = ds.ID(r)
			for i, c := range ds.Columns {
				f.Properties[c] = r.Values[i]
			}
			f.Properties["layer"] = l.Label
			f.Properties["color"] = l.Color.String()
			fc.Append(f)
		}
	}
	return fc
}

// MarshalGeoJSON encodes the collection.
func MarshalGeoJSON(fc *geojson.FeatureCollection) ([]byte, error) {
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return b, nil
}
