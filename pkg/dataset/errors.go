package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned by Search when the dataset holds no rows,
	// which is how a failed load surfaces to callers.
	ErrDataUnavailable = errors.New("data not available")

	// ErrTermTooShort is returned by Search when the normalized term has
	// fewer than MinTermLength characters.
	ErrTermTooShort = fmt.Errorf("term must be at least %d characters", MinTermLength)

	// ErrNoHeader is returned by Load when the source has no header row.
	ErrNoHeader = errors.New("missing header row")
)

// LoadError describes why a source file could not be turned into a Dataset.
type LoadError struct {
	Path string
	Op   string // "open", "decode", "header", "source"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
