package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Decoder turns a raw tabular resource into a header and rows of cells.
type Decoder interface {
	CanDecode(name string) bool
	Decode(r io.Reader, opt Options) (*Table, error)
}

// Table is the undecorated output of a Decoder.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based source line where each row starts. Quoted
	// fields may span lines, so it is not always row index + 2.
	Lines []int
}

// line returns the source line of row i.
func (t *Table) line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// rowError carries the source line of a decode failure.
type rowError struct {
	line int
	err  error
}

func (e *rowError) Error() string { return e.err.Error() }
func (e *rowError) Unwrap() error { return e.err }

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

// decoderFor picks a decoder by resource name, falling back to comma CSV.
func decoderFor(name string, opt Options) Decoder {
	if opt.Delimiter != 0 {
		return csvDecoder{comma: opt.Delimiter}
	}
	for _, d := range registry {
		if d.CanDecode(name) {
			return d
		}
	}
	return csvDecoder{comma: ','}
}

func init() {
	Register(csvDecoder{comma: ','})
	Register(tsvDecoder{})
	Register(xlsxDecoder{})
}

type csvDecoder struct{ comma rune }

func (csvDecoder) CanDecode(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}

func (d csvDecoder) Decode(r io.Reader, _ Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.comma
	// Every row must match the header width.
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no header row")
		}
		return nil, csvRowError(err)
	}
	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, csvRowError(err)
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, rec)
		t.Lines = append(t.Lines, line)
	}
	return t, nil
}

func csvRowError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &rowError{line: pe.Line, err: pe.Err}
	}
	return err
}

type tsvDecoder struct{}

func (tsvDecoder) CanDecode(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".tsv")
}

func (tsvDecoder) Decode(r io.Reader, opt Options) (*Table, error) {
	return csvDecoder{comma: '\t'}.Decode(r, opt)
}

type xlsxDecoder struct{}

func (xlsxDecoder) CanDecode(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xlsx")
}

// Decode reads opt.Sheet, or the first sheet when unset. Trailing empty
// cells are padded back to the header width.
func (xlsxDecoder) Decode(r io.Reader, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(all) == 0 {
		return nil, errors.New("no header row")
	}
	header := all[0]
	t := &Table{Header: header, Rows: make([][]string, 0, len(all)-1)}
	for i, row := range all[1:] {
		if len(row) > len(header) {
			return nil, &rowError{line: i + 2, err: fmt.Errorf("wrong number of fields: %d, header has %d", len(row), len(header))}
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
