package dataset

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Defaults for the CADOP export published by ANS.
const (
	DefaultDelimiter = ";"
	DefaultEncoding  = "latin1"
)

// SourceSpec describes the delimited file a Dataset is loaded from.
type SourceSpec struct {
	Path      string `yaml:"path" json:"path"`
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	Encoding  string `yaml:"encoding" json:"encoding"`
}

// WithDefaults fills empty fields with the CADOP defaults.
func (s SourceSpec) WithDefaults() SourceSpec {
	if s.Delimiter == "" {
		s.Delimiter = DefaultDelimiter
	}
	if s.Encoding == "" {
		s.Encoding = DefaultEncoding
	}
	return s
}

// comma validates the delimiter and returns it as a rune.
func (s SourceSpec) comma() (rune, error) {
	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s.Delimiter)
	}
	return r, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
