package layers

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned by Partition when there are no records; no
// centroid is computed in that case.
var ErrEmptyDataset = errors.New("dataset has no records")

// UnknownColumnError indicates a category column absent from the schema.
type UnknownColumnError struct {
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown column %q", e.Column)
	}
	return fmt.Sprintf("unknown column %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// UnknownLabelError indicates a selected layer that is not in the palette.
type UnknownLabelError struct {
	Label  string
	Labels []string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown layer %q (choose from: %s)", e.Label, strings.Join(e.Labels, ", "))
}
