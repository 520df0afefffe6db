package dataset

import "unicode/utf8"

const (
	// PageSize caps the records returned by one search.
	PageSize = 50
	// MinTermLength is the minimum normalized term length, in characters.
	MinTermLength = 2
)

// Result is the answer to one search. Total counts every match in the
// dataset; Results holds at most PageSize of them, in file order.
type Result struct {
	Term    string   `json:"term"`
	Total   int      `json:"total"`
	Results []Record `json:"results"`
}

// Search scans every record for the normalized term (substring of any
// column) and returns the first PageSize matches in file order.
// It returns ErrDataUnavailable on an empty dataset and ErrTermTooShort
// when the normalized term is shorter than MinTermLength.
func (d *Dataset) Search(term string) (*Result, error) {
	norm, err := d.prepare(term)
	if err != nil {
		return nil, err
	}
	p := d.scanRange(norm, 0, len(d.records), PageSize)
	return &Result{Term: norm, Total: p.total, Results: p.page}, nil
}

// prepare applies the preconditions shared by every scan strategy.
func (d *Dataset) prepare(term string) (string, error) {
	if d.Empty() {
		return "", ErrDataUnavailable
	}
	norm := Normalize(term)
	if utf8.RuneCountInString(norm) < MinTermLength {
		return "", ErrTermTooShort
	}
	return norm, nil
}

// partial is the outcome of scanning a contiguous slice of records.
type partial struct {
	page  []Record
	total int
	panic any
}

func (d *Dataset) scanRange(term string, lo, hi, limit int) partial {
	p := partial{page: make([]Record, 0, min(limit, hi-lo))}
	for _, rec := range d.records[lo:hi] {
		if !rec.contains(term) {
			continue
		}
		p.total++
		if len(p.page) < limit {
			p.page = append(p.page, rec)
		}
	}
	return p
}
