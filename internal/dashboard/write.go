package dashboard

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/census-cli/internal/render"
	"github.com/KaramelBytes/census-cli/internal/utils"
	"github.com/google/uuid"
)

// Artifact file names written by Write.
const (
	SummaryFile  = "summary.md"
	ChartFile    = "chart.png"
	DeckFile     = "deck.json"
	GeoJSONFile  = "layers.geojson"
	MapFile      = "map.html"
	ManifestFile = "manifest.json"
)

// Manifest records what one run wrote.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	Records     int       `json:"records"`
	Layers      []string  `json:"layers"`
	Files       []string  `json:"files"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Write renders every artifact into dir using atomic writes.
func (d *Dashboard) Write(dir string) (*Manifest, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	m := &Manifest{
		RunID:       uuid.NewString(),
		Source:      d.Source,
		Records:     d.Dataset.Len(),
		Layers:      make([]string, 0, len(d.Selected)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, l := range d.Selected {
		m.Layers = append(m.Layers, l.Label)
	}
	write := func(name string, data []byte) error {
		if err := utils.SafeWriteFile(filepath.Join(dir, name), data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		m.Files = append(m.Files, name)
		return nil
	}

	if err := write(SummaryFile, []byte(d.Markdown())); err != nil {
		return nil, err
	}

	chartOpt := d.opt.Chart
	chartOpt.Format = "png"
	var chart bytes.Buffer
	if err := render.BarChart(&chart, d.Counts, d.Palette, chartOpt); err != nil {
		return nil, err
	}
	if err := write(ChartFile, chart.Bytes()); err != nil {
		return nil, err
	}

	deckJSON, err := d.Deck.JSON()
	if err != nil {
		return nil, err
	}
	if err := write(DeckFile, deckJSON); err != nil {
		return nil, err
	}

	geo, err := render.MarshalGeoJSON(render.GeoJSON(d.Dataset, d.Selected))
	if err != nil {
		return nil, err
	}
	if err := write(GeoJSONFile, geo); err != nil {
		return nil, err
	}

	page, err := render.HTMLMap(d.Title, deckJSON, 500)
	if err != nil {
		return nil, err
	}
	if err := write(MapFile, page); err != nil {
		return nil, err
	}

	m.Files = append(m.Files, ManifestFile)
	manifest, err := utils.PrettyJSON(m)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(filepath.Join(dir, ManifestFile), manifest); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestFile, err)
	}
	return m, nil
}
