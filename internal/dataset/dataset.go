package dataset

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Missing is the literal written into every empty or NA cell at load time.
// Display text downstream depends on seeing this exact string.
const Missing = "None"

// Canonical coordinate column names.
const (
	LonColumn = "lon"
	LatColumn = "lat"
)

// legacyCoordinates maps older coordinate headers to their canonical names.
var legacyCoordinates = [][2]string{
	{"X", LonColumn},
	{"Y", LatColumn},
}

// Record is one row of the source table.
type Record struct {
	// Row is the 1-based data row (header excluded).
	Row int
	// Values holds every cell, aligned with Dataset.Columns.
	Values []string
	// Position is {lon, lat}; only meaningful when Located is true.
	Position orb.Point
	Located  bool
}

// Dataset is the fully materialized, read-only table for one run.
type Dataset struct {
	Source   string
	Columns  []string
	Records  []Record
	IDColumn string

	index map[string]int
}

func newDataset(source string, columns []string, idColumn string) *Dataset {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Dataset{Source: source, Columns: columns, IDColumn: idColumn, index: idx}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// ColumnIndex resolves a column name to its position in Values.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// HasColumn reports whether the schema contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Value returns the cell of r under column, and false when the column is unknown.
func (d *Dataset) Value(r Record, column string) (string, bool) {
	i, ok := d.index[column]
	if !ok || i >= len(r.Values) {
		return "", false
	}
	return r.Values[i], true
}

// ID returns the record identifier, falling back to the row number when
// no identifier column is configured.
func (d *Dataset) ID(r Record) string {
	if d.IDColumn != "" {
		if v, ok := d.Value(r, d.IDColumn); ok {
			return v
		}
	}
	return strconv.Itoa(r.Row)
}

// Located counts records that carry both coordinates.
func (d *Dataset) Located() int {
	n := 0
	for _, r := range d.Records {
		if r.Located {
			n++
		}
	}
	return n
}

// MissingCounts returns, per column, how many cells hold the Missing sentinel.
func (d *Dataset) MissingCounts() map[string]int {
	out := make(map[string]int, len(d.Columns))
	for _, c := range d.Columns {
		out[c] = 0
	}
	for _, r := range d.Records {
		for i, v := range r.Values {
			if v == Missing {
				out[d.Columns[i]]++
			}
		}
	}
	return out
}

// CanonicalizeColumns renames legacy coordinate headers ("X"/"Y") to
// "lon"/"lat". A legacy name is left alone when its canonical name is
// already present, so applying it twice yields the same schema.
func CanonicalizeColumns(cols []string) []string {
	out := make([]string, len(cols))
	copy(out, cols)
	present := make(map[string]bool, len(out))
	for _, c := range out {
		present[c] = true
	}
	for _, pair := range legacyCoordinates {
		legacy, canonical := pair[0], pair[1]
		if present[canonical] {
			continue
		}
		for i, c := range out {
			if c == legacy {
				out[i] = canonical
				present[canonical] = true
				break
			}
		}
	}
	return out
}
