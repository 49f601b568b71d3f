package dataset

import "fmt"

// SourceUnavailableError indicates the path or URL could not be read.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedSourceError indicates the content could not be parsed as a table.
// Row is the 1-based line in the source when known, 0 otherwise.
type MalformedSourceError struct {
	Source string
	Row    int
	Err    error
}

func (e *MalformedSourceError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed source: %s: line %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("malformed source: %s: %v", e.Source, e.Err)
}

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from a remote source.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
