package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Load reads the delimited file described by src and normalizes every cell.
// Malformed rows are skipped and counted; only an unusable file is an error,
// reported as a *LoadError.
func Load(src SourceSpec) (*Dataset, error) {
	src = src.WithDefaults()
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, &LoadError{Path: src.Path, Op: "open", Err: err}
	}
	defer f.Close()

	d, err := Read(f, src)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Read builds a Dataset from an already opened source.
func Read(r io.Reader, src SourceSpec) (*Dataset, error) {
	src = src.WithDefaults()
	fail := func(op string, err error) error {
		return &LoadError{Path: src.Path, Op: op, Err: err}
	}

	comma, err := src.comma()
	if err != nil {
		return nil, fail("source", err)
	}

	// Transcode non-UTF-8 sources (latin1 for the ANS export).
	if !isUTF8(src.Encoding) {
		e, err := htmlindex.Get(src.Encoding)
		if err != nil {
			return nil, fail("source", fmt.Errorf("unsupported encoding %q: %w", src.Encoding, err))
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var header []string
	for header == nil && lines.Scan() {
		if lines.Text() == "" {
			continue
		}
		if header, err = parseLine(lines.Text(), comma); err != nil {
			return nil, fail("header", err)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fail("decode", err)
	}
	if header == nil {
		return nil, fail("header", ErrNoHeader)
	}
	b := newBuilder(header, Normalize)

	for lines.Scan() {
		if lines.Text() == "" {
			continue
		}
		row, err := parseLine(lines.Text(), comma)
		if err != nil {
			b.skipped++
			continue
		}
		b.add(row)
	}
	if err := lines.Err(); err != nil {
		return nil, fail("decode", err)
	}
	return b.build(src.Path), nil
}

// maxLineSize bounds a single physical line of the source.
const maxLineSize = 1 << 20

// parseLine splits one physical line into fields. Records never span lines,
// so an unbalanced quote fails this line only. A bare quote inside an
// unquoted field ("Clinica "Boa" Vista") is kept as text.
func parseLine(line string, comma rune) ([]string, error) {
	fields, err := readRecord(line, comma, false)
	if errors.Is(err, csv.ErrBareQuote) {
		fields, err = readRecord(line, comma, true)
	}
	return fields, err
}

func readRecord(line string, comma rune, lazy bool) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = comma
	cr.LazyQuotes = lazy
	cr.FieldsPerRecord = -1
	return cr.Read()
}

// builder accumulates normalized records against a fixed schema.
type builder struct {
	schema    *Schema
	normalize Normalizer
	records   []Record
	skipped   int
}

func newBuilder(header []string, normalize Normalizer) *builder {
	return &builder{schema: newSchema(cleanHeader(header)), normalize: normalize}
}

// add normalizes one raw row. Rows wider than the header cannot be mapped
// onto the schema and are skipped; short rows are padded with "".
func (b *builder) add(row []string) bool {
	n := b.schema.Len()
	if n == 0 || len(row) > n {
		b.skipped++
		return false
	}
	values := make([]string, n)
	for i, cell := range row {
		values[i] = b.normalize(cell)
	}
	b.records = append(b.records, Record{schema: b.schema, values: values})
	return true
}

func (b *builder) build(source string) *Dataset {
	return &Dataset{
		schema:   b.schema,
		records:  b.records,
		source:   source,
		skipped:  b.skipped,
		loadedAt: time.Now(),
	}
}

// cleanHeader trims names, strips a UTF-8 BOM, names blank columns
// "column_N" and suffixes duplicates with ".1", ".2", ...
func cleanHeader(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "column_" + strconv.Itoa(i)
		}
		base := h
		for seen[h] > 0 {
			h = base + "." + strconv.Itoa(seen[base])
			seen[base]++
		}
		seen[h]++
		names[i] = h
	}
	return names
}
