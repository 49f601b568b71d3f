package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
)

// DefaultTooltip shows the identifier, location and activity of a point.
const DefaultTooltip = "Squirrel ID: {Unique Squirrel ID}\n Specific location: {Specific Location}\n Other activities: {Other Activities}"

// ViewOptions frames the initial map view.
type ViewOptions struct {
	MapStyle string
	Zoom     float64
	Pitch    float64
}

// DefaultViewOptions returns the road style at zoom 12.5, no pitch.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{MapStyle: "road", Zoom: 12.5, Pitch: 0}
}

// ViewState is the initial camera. Latitude and Longitude are omitted when
// there is no centroid.
type ViewState struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Zoom      float64  `json:"zoom"`
	Pitch     float64  `json:"pitch"`
}

// DeckLayer is one scatterplot layer in deck.gl JSON form.
type DeckLayer struct {
	Type            string           `json:"@@type"`
	ID              string           `json:"id"`
	Data            []map[string]any `json:"data"`
	GetFillColor    []uint8          `json:"getFillColor"`
	GetPosition     string           `json:"getPosition"`
	Pickable        bool             `json:"pickable"`
	Opacity         float64          `json:"opacity"`
	Stroked         bool             `json:"stroked"`
	Filled          bool             `json:"filled"`
	RadiusScale     float64          `json:"radiusScale"`
	RadiusMinPixels float64          `json:"radiusMinPixels"`
	RadiusMaxPixels float64          `json:"radiusMaxPixels"`
	GetRadius       float64          `json:"getRadius"`
}

// Tooltip is the hover template; {column} placeholders are filled per point.
type Tooltip struct {
	Text string `json:"text"`
}

// Deck is the full map description handed to deck.gl.
type Deck struct {
	MapStyle         string      `json:"mapStyle"`
	InitialViewState ViewState   `json:"initialViewState"`
	Layers           []DeckLayer `json:"layers"`
	Tooltip          Tooltip     `json:"tooltip"`
}

// BuildDeck assembles the map for the selected layers. Records without
// coordinates are left out of the map data.
func BuildDeck(ds *dataset.Dataset, selected []*layers.Layer, centroid *layers.Centroid, view ViewOptions, tooltip string) *Deck {
	d := &Deck{
		MapStyle:         view.MapStyle,
		InitialViewState: ViewState{Zoom: view.Zoom, Pitch: view.Pitch},
		Layers:           make([]DeckLayer, 0, len(selected)),
		Tooltip:          Tooltip{Text: tooltip},
	}
	if centroid != nil {
		lat, lon := centroid.Lat(), centroid.Lon()
		d.InitialViewState.Latitude = &lat
		d.InitialViewState.Longitude = &lon
	}
	for _, l := range selected {
		located := l.Located()
		data := make([]map[string]any, 0, len(located))
		for _, r := range located {
			data = append(data, pointData(ds, r))
		}
		d.Layers = append(d.Layers, DeckLayer{
			Type:            "ScatterplotLayer",
			ID:              l.Label,
			Data:            data,
			GetFillColor:    []uint8{l.Color[0], l.Color[1], l.Color[2]},
			GetPosition:     fmt.Sprintf("@@=[%s, %s]", dataset.LonColumn, dataset.LatColumn),
			Pickable:        true,
			Opacity:         l.Style.Opacity,
			Stroked:         l.Style.Stroked,
			Filled:          l.Style.Filled,
			RadiusScale:     l.Style.RadiusScale,
			RadiusMinPixels: l.Style.RadiusMinPixels,
			RadiusMaxPixels: l.Style.RadiusMaxPixels,
			GetRadius:       l.Style.Radius,
		})
	}
	return d
}

// pointData exposes every cell under its column name, with the coordinates
// as numbers.
func pointData(ds *dataset.Dataset, r dataset.Record) map[string]any {
	m := make(map[string]any, len(ds.Columns))
	for i, c := range ds.Columns {
		m[c] = r.Values[i]
	}
	m[dataset.LonColumn] = r.Position.Lon()
	m[dataset.LatColumn] = r.Position.Lat()
	return m
}

// JSON marshals the deck with indentation.
func (d *Deck) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal deck: %w", err)
	}
	return b, nil
}

// Points counts the map points over all layers.
func (d *Deck) Points() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Data)
	}
	return n
}

// CenterLabel formats the initial view for text output.
func (v ViewState) CenterLabel() string {
	if v.Latitude == nil || v.Longitude == nil {
		return "undefined"
	}
	return strconv.FormatFloat(*v.Latitude, 'f', 6, 64) + ", " + strconv.FormatFloat(*v.Longitude, 'f', 6, 64)
}
