package metrics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
)

// CategoryCount is one bar of the category chart.
type CategoryCount struct {
	Value string
	Count int
}

// CountBy counts every value of column, Missing included, in order of
// first appearance.
func CountBy(ds *dataset.Dataset, column string) ([]CategoryCount, error) {
	idx, ok := ds.ColumnIndex(column)
	if !ok {
		return nil, &layers.UnknownColumnError{Column: column, Available: ds.Columns}
	}
	pos := map[string]int{}
	var out []CategoryCount
	for _, r := range ds.Records {
		v := r.Values[idx]
		if i, seen := pos[v]; seen {
			out[i].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, CategoryCount{Value: v, Count: 1})
	}
	return out, nil
}

// Options labels and scales the metric cards.
type Options struct {
	ReferenceCount  int
	ParkHectares    float64
	CountLabel      string
	DensityLabel    string
	CategoriesLabel string
}

// DefaultOptions describes Central Park (350 ha) and the 2373 reference count.
func DefaultOptions() Options {
	return Options{
		ReferenceCount:  2373,
		ParkHectares:    350,
		CountLabel:      "Number of recorded squirrels",
		DensityLabel:    "Squirrels per hectare",
		CategoriesLabel: "Number of primary colors",
	}
}

// Metric is a value with an optional delta, as shown on a metric card.
type Metric struct {
	Label string
	Value float64
	// Delta is nil when the card has no comparison.
	Delta *float64
	// Precision is the number of decimals used by Format.
	Precision int
}

// FormatValue renders the value with the metric precision.
func (m Metric) FormatValue() string {
	return strconv.FormatFloat(m.Value, 'f', m.Precision, 64)
}

// FormatDelta renders the signed delta, or "" when there is none.
func (m Metric) FormatDelta() string {
	if m.Delta == nil {
		return ""
	}
	s := strconv.FormatFloat(*m.Delta, 'f', m.Precision, 64)
	if *m.Delta > 0 {
		s = "+" + s
	}
	return s
}

func (m Metric) String() string {
	if d := m.FormatDelta(); d != "" {
		return fmt.Sprintf("%s: %s (%s)", m.Label, m.FormatValue(), d)
	}
	return fmt.Sprintf("%s: %s", m.Label, m.FormatValue())
}

// Compute derives the three metric cards from a partition summary: total
// against the reference, density per hectare, and category count.
func Compute(s layers.Summary, opt Options) []Metric {
	total := float64(s.Total)
	delta := float64(s.Total - opt.ReferenceCount)
	cards := []Metric{
		{Label: opt.CountLabel, Value: total, Delta: &delta},
	}
	if opt.ParkHectares > 0 {
		density := round(total/opt.ParkHectares, 2)
		densityDelta := round(delta/opt.ParkHectares, 2)
		cards = append(cards, Metric{Label: opt.DensityLabel, Value: density, Delta: &densityDelta, Precision: 2})
	}
	cards = append(cards, Metric{Label: opt.CategoriesLabel, Value: float64(s.Categories)})
	return cards
}

// Empty returns zero-valued cards for a dataset without records.
func Empty(opt Options) []Metric {
	return []Metric{
		{Label: opt.CountLabel},
		{Label: opt.DensityLabel, Precision: 2},
		{Label: opt.CategoriesLabel},
	}
}

// round rounds half to even at the given decimals.
func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}
