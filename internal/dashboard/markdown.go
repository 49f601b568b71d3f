package dashboard

import (
	"fmt"
	"strings"
)

// Markdown renders a compact text version of the dashboard.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Title != "" {
		b.WriteString(fmt.Sprintf("Title: %s\n", d.Title))
	}
	b.WriteString(fmt.Sprintf("Source: %s\n", d.Source))
	b.WriteString(fmt.Sprintf("Records: %d\n", d.Dataset.Len()))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(d.Dataset.Columns)))
	b.WriteString(fmt.Sprintf("Located: %d\n\n", d.Dataset.Located()))

	if ref := d.opt.Metrics.ReferenceCount; ref > 0 && d.Dataset.Len() > 0 {
		b.WriteString("[NARRATIVE]\n")
		b.WriteString(fmt.Sprintf("The census website mentions %d, but the most recent data suggests %d.\n\n", ref, d.Dataset.Len()))
	}

	b.WriteString("[CATEGORY COUNTS]\n")
	b.WriteString(fmt.Sprintf("Column: %s\n", d.Column))
	for _, c := range d.Counts {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(c.Value), c.Count))
	}

	b.WriteString("\n[METRICS]\n")
	for _, m := range d.Metrics {
		b.WriteString("- ")
		b.WriteString(m.String())
		b.WriteString("\n")
	}

	b.WriteString("\n[LAYERS]\n")
	if d.Result == nil {
		b.WriteString("(none)\n")
	} else {
		selected := map[string]bool{}
		for _, l := range d.Selected {
			selected[l.Label] = true
		}
		for _, l := range d.Result.Ordered() {
			mark := " "
			if selected[l.Label] {
				mark = "x"
			}
			b.WriteString(fmt.Sprintf("- [%s] %s (rgb %s): %d\n", mark, l.Label, l.Color, l.Len()))
		}
		b.WriteString(fmt.Sprintf("Unmatched: %d\n", d.Result.Unmatched))
	}

	b.WriteString("\n[VIEW]\n")
	if d.Deck != nil {
		v := d.Deck.InitialViewState
		b.WriteString(fmt.Sprintf("Center: %s\n", v.CenterLabel()))
		b.WriteString(fmt.Sprintf("Zoom: %.1f, pitch: %.0f, style: %s\n", v.Zoom, v.Pitch, d.Deck.MapStyle))
		b.WriteString(fmt.Sprintf("Points: %d\n", d.Deck.Points()))
	}
	if d.Result != nil && d.Result.Centroid != nil {
		bd := d.Result.Centroid.Bound
		b.WriteString(fmt.Sprintf("Bounds: [%.6f, %.6f] - [%.6f, %.6f]\n", bd.Min.Lon(), bd.Min.Lat(), bd.Max.Lon(), bd.Max.Lat()))
	}

	if len(d.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range d.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
