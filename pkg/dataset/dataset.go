// CLAUDE:SUMMARY Immutable in-memory operator table: ordered Schema, schema-bound Records, load metadata.
package dataset

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Schema is the ordered column set shared by every Record of a Dataset.
type Schema struct {
	names []string
	index map[string]int
}

func newSchema(names []string) *Schema {
	s := &Schema{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		s.index[n] = i
	}
	return s
}

// Columns returns a copy of the column names in header order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.names) }

// Index returns the position of a column, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Record is one normalized row. Values line up with the Schema columns.
type Record struct {
	schema *Schema
	values []string
}

// Get returns the value of a column, or "" if the column is unknown.
func (r Record) Get(column string) string {
	i := r.schema.Index(column)
	if i < 0 {
		return ""
	}
	return r.values[i]
}

// Columns returns the column names of this record in order.
func (r Record) Columns() []string { return r.schema.Columns() }

// Values returns a copy of the values in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the record as a column -> value map (order is lost).
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, n := range r.schema.names {
		m[n] = r.values[i]
	}
	return m
}

// contains reports whether any value holds the normalized term.
func (r Record) contains(term string) bool {
	for _, v := range r.values {
		if strings.Contains(v, term) {
			return true
		}
	}
	return false
}

// MarshalJSON emits an object whose keys follow header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.schema.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the full table. It is never modified after Load returns, so any
// number of goroutines may call Search on it concurrently.
type Dataset struct {
	schema   *Schema
	records  []Record
	source   string
	skipped  int
	loadedAt time.Time
}

// Empty returns the zero-row, zero-column dataset that stands for
// "data unavailable".
func Empty() *Dataset {
	return &Dataset{schema: newSchema(nil)}
}

// New builds a Dataset from a header and raw rows, normalizing every cell.
// Rows wider than the header are skipped, shorter ones are padded with "".
func New(header []string, rows [][]string) *Dataset {
	b := newBuilder(header, Normalize)
	for _, row := range rows {
		b.add(row)
	}
	return b.build("")
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d == nil || len(d.records) == 0 }

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Schema returns the shared column schema.
func (d *Dataset) Schema() *Schema { return d.schema }

// Record returns the i-th record in file order.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Skipped returns how many malformed rows were dropped during load.
func (d *Dataset) Skipped() int { return d.skipped }

// Source returns the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// LoadedAt returns when the dataset finished loading.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Info is the public summary of a loaded dataset.
type Info struct {
	Source   string    `json:"source"`
	Columns  []string  `json:"columns"`
	Rows     int       `json:"rows"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Info returns a summary of the dataset.
func (d *Dataset) Info() Info {
	if d == nil {
		d = Empty()
	}
	return Info{
		Source:   d.source,
		Columns:  d.schema.Columns(),
		Rows:     len(d.records),
		Skipped:  d.skipped,
		LoadedAt: d.loadedAt,
	}
}
