package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// DefaultMissingTokens are the cell values read as missing, in addition to
// the empty string.
var DefaultMissingTokens = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options controls how sources are fetched and parsed.
type Options struct {
	// IDColumn must exist when set; it names the record identifier.
	IDColumn string
	// Delimiter overrides decoder selection by extension when non-zero.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// MissingTokens replaces DefaultMissingTokens when non-nil.
	MissingTokens []string
	HTTPTimeout   time.Duration
	MaxBytes      int64
	UserAgent     string
}

// DefaultOptions returns the settings used for the squirrel census.
func DefaultOptions() Options {
	return Options{
		IDColumn:    "Unique Squirrel ID",
		HTTPTimeout: 30 * time.Second,
		MaxBytes:    64 << 20,
		UserAgent:   "census-cli/1.0",
	}
}

func (o Options) missingTokens() []string {
	if o.MissingTokens != nil {
		return o.MissingTokens
	}
	return DefaultMissingTokens
}

func (o Options) fingerprint() string {
	return fmt.Sprintf("%s|%q|%s|%q", o.IDColumn, o.Delimiter, o.Sheet, o.missingTokens())
}

// Loader reads datasets from local paths or HTTP(S) URLs.
type Loader struct {
	opt     Options
	fetcher *Fetcher
	cache   *Cache
	log     *zap.Logger
}

// NewLoader creates a Loader. cache and logger may be nil.
func NewLoader(opt Options, cache *Cache, logger *zap.Logger) *Loader {
	if opt.HTTPTimeout <= 0 {
		opt.HTTPTimeout = DefaultOptions().HTTPTimeout
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = DefaultOptions().MaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		opt:     opt,
		fetcher: NewFetcher(opt.HTTPTimeout, opt.UserAgent, opt.MaxBytes),
		cache:   cache,
		log:     logger,
	}
}

// Load reads the whole source into memory. Failures are
// *SourceUnavailableError or *MalformedSourceError; there is no partial load.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	source = strings.TrimSpace(source)
	if IsRemote(source) {
		return l.loadRemote(ctx, source)
	}
	return l.loadLocal(source)
}

func (l *Loader) loadLocal(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &SourceUnavailableError{Source: path, Err: err}
	}
	if info.IsDir() {
		return nil, &SourceUnavailableError{Source: path, Err: errors.New("is a directory")}
	}
	key := CacheKey(path, l.opt.fingerprint())
	version := fmt.Sprintf("%d:%d", info.ModTime().UnixNano(), info.Size())
	if e, ok := l.cache.get(key); ok && e.version == version {
		l.log.Debug("dataset cache hit", zap.String("source", path))
		return e.ds, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceUnavailableError{Source: path, Err: err}
	}
	defer f.Close()

	ds, err := Parse(f, path, path, l.opt)
	if err != nil {
		return nil, err
	}
	l.cache.set(key, &cacheEntry{version: version, ds: ds})
	l.log.Debug("dataset loaded",
		zap.String("source", path),
		zap.Int("records", ds.Len()),
		zap.Int("columns", len(ds.Columns)))
	return ds, nil
}

func (l *Loader) loadRemote(ctx context.Context, rawURL string) (*Dataset, error) {
	key := CacheKey(rawURL, l.opt.fingerprint())
	prev, cached := l.cache.get(key)
	var validators Validators
	if cached {
		validators = prev.validators
	}

	res, err := l.fetcher.Fetch(ctx, rawURL, validators)
	if err != nil {
		return nil, &SourceUnavailableError{Source: rawURL, Err: err}
	}
	if res.NotModified && cached {
		l.log.Debug("dataset not modified", zap.String("source", rawURL), zap.String("etag", validators.ETag))
		return prev.ds, nil
	}

	ds, err := Parse(bytes.NewReader(res.Body), resourceName(res.FinalURL), rawURL, l.opt)
	if err != nil {
		return nil, err
	}
	if !res.Validators.empty() {
		l.cache.set(key, &cacheEntry{validators: res.Validators, ds: ds})
	}
	l.log.Debug("dataset fetched",
		zap.String("source", rawURL),
		zap.Int("bytes", len(res.Body)),
		zap.Int("records", ds.Len()))
	return ds, nil
}

// Parse decodes r, picking the decoder from name, and builds the cleaned dataset.
func Parse(r io.Reader, name, source string, opt Options) (*Dataset, error) {
	t, err := decoderFor(name, opt).Decode(r, opt)
	if err != nil {
		var re *rowError
		if errors.As(err, &re) {
			return nil, &MalformedSourceError{Source: source, Row: re.line, Err: re.err}
		}
		return nil, &MalformedSourceError{Source: source, Err: err}
	}
	return build(source, t, opt)
}

func build(source string, t *Table, opt Options) (*Dataset, error) {
	malformed := func(row int, format string, args ...any) error {
		return &MalformedSourceError{Source: source, Row: row, Err: fmt.Errorf(format, args...)}
	}

	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		// Spreadsheet exports often carry a BOM on the first header cell.
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	cols = CanonicalizeColumns(cols)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c == "" {
			return nil, malformed(1, "empty column name")
		}
		if seen[c] {
			return nil, malformed(1, "duplicate column %q", c)
		}
		seen[c] = true
	}

	ds := newDataset(source, cols, opt.IDColumn)
	lonIdx, okLon := ds.ColumnIndex(LonColumn)
	latIdx, okLat := ds.ColumnIndex(LatColumn)
	if !okLon || !okLat {
		return nil, malformed(1, "missing coordinate columns: need %q/%q or \"X\"/\"Y\"", LonColumn, LatColumn)
	}
	if opt.IDColumn != "" && !ds.HasColumn(opt.IDColumn) {
		return nil, malformed(1, "missing identifier column %q", opt.IDColumn)
	}

	na := make(map[string]struct{}, len(opt.missingTokens()))
	for _, tok := range opt.missingTokens() {
		na[tok] = struct{}{}
	}

	ds.Records = make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := t.line(i)
		if len(row) != len(cols) {
			return nil, malformed(line, "wrong number of fields: %d, header has %d", len(row), len(cols))
		}
		vals := make([]string, len(row))
		for j, v := range row {
			if _, isNA := na[v]; isNA || v == "" {
				v = Missing
			}
			vals[j] = v
		}
		rec := Record{Row: i + 1, Values: vals}
		lon, okLon, err := parseCoordinate(vals[lonIdx])
		if err != nil {
			return nil, malformed(line, "column %q: %v", LonColumn, err)
		}
		lat, okLat, err := parseCoordinate(vals[latIdx])
		if err != nil {
			return nil, malformed(line, "column %q: %v", LatColumn, err)
		}
		if okLon && okLat {
			rec.Position = orb.Point{lon, lat}
			rec.Located = true
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// parseCoordinate returns ok=false for the Missing sentinel and an error for
// anything else that is not a finite float.
func parseCoordinate(v string) (float64, bool, error) {
	if v == Missing {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("invalid coordinate %q", v)
	}
	return f, true, nil
}
