package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Ótimo", "otimo"},
		{"otimo", "otimo"},
		{"OTIMO", "otimo"},
		{"FRANÇOIS", "francois"},
		{"São José", "sao jose"},
		{"Élodie", "elodie"},
		{"naïve", "naive"},
		{"Ñoño", "nono"},
		{"Straße", "strasse"},
		{"Ødegård", "odegard"},
		{"Æsir", "aesir"},
		{"00123456", "00123456"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, input := range []string{
		"Ótimo", "CLÍNICA SÃO JOSÉ LTDA", "Straße", "Ødegård", "Москва", "東京", "á", "mixed Ça va?", "",
	} {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", input)
	}
}

func TestNormalize_CombiningMarks(t *testing.T) {
	// "e" followed by a combining acute accent.
	assert.Equal(t, "jose", Normalize("Jose\u0301"))
}
