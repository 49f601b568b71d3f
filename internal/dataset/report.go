package dataset

import (
	"fmt"
	"strings"
)

// Markdown renders the schema and missing-value profile of the dataset.
func (d *Dataset) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Source: %s\n", d.Source))
	b.WriteString(fmt.Sprintf("Records: %d (located %d)\n", d.Len(), d.Located()))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(d.Columns)))

	b.WriteString("[SCHEMA]\n")
	missing := d.MissingCounts()
	for _, c := range d.Columns {
		pct := 0.0
		if d.Len() > 0 {
			pct = float64(missing[c]) * 100.0 / float64(d.Len())
		}
		tag := ""
		switch c {
		case LonColumn, LatColumn:
			tag = " [coordinate]"
		case d.IDColumn:
			tag = " [id]"
		}
		b.WriteString(fmt.Sprintf("- %s%s: missing %d (%.1f%%)\n", c, tag, missing[c], pct))
	}
	return b.String()
}
