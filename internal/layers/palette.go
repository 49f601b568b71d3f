package layers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RGB is a fill color triple.
type RGB [3]uint8

func (c RGB) String() string { return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2]) }

// Category pairs a fixed label with its color.
type Category struct {
	Label string
	Color RGB
}

// Palette is the ordered, fixed set of labels that get a map layer.
type Palette []Category

// DefaultPalette returns the three primary fur colors of the census.
func DefaultPalette() Palette {
	return Palette{
		{Label: "Gray", Color: RGB{130, 130, 130}},
		{Label: "Cinnamon", Color: RGB{97, 54, 19}},
		{Label: "Black", Color: RGB{0, 0, 0}},
	}
}

// Labels returns the palette labels in order.
func (p Palette) Labels() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Label
	}
	return out
}

// Lookup returns the color of label.
func (p Palette) Lookup(label string) (RGB, bool) {
	for _, c := range p {
		if c.Label == label {
			return c.Color, true
		}
	}
	return RGB{}, false
}

// Validate rejects duplicate labels, which would break layer disjointness.
func (p Palette) Validate() error {
	seen := make(map[string]bool, len(p))
	for _, c := range p {
		if seen[c.Label] {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidPalette, c.Label)
		}
		seen[c.Label] = true
	}
	return nil
}

// String renders the palette in the form accepted by ParsePalette.
func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.Label + "=" + c.Color.String()
	}
	return strings.Join(parts, ";")
}

// ParsePalette reads "Label=R,G,B;Label=R,G,B". Labels are kept verbatim
// (no trimming inside the label) since matching is exact.
func ParsePalette(s string) (Palette, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPalette)
	}
	var p Palette
	for _, entry := range strings.Split(s, ";") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		label, rgb, ok := strings.Cut(entry, "=")
		if !ok || label == "" {
			return nil, fmt.Errorf("%w: entry %q: want Label=R,G,B", ErrInvalidPalette, entry)
		}
		parts := strings.Split(rgb, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: entry %q: want three components", ErrInvalidPalette, entry)
		}
		var c RGB
		for i, part := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: component %q out of 0-255", ErrInvalidPalette, entry, part)
			}
			c[i] = uint8(n)
		}
		p = append(p, Category{Label: label, Color: c})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ErrInvalidPalette is returned for unparseable or inconsistent palettes.
var ErrInvalidPalette = errors.New("invalid palette")
