package dataset

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clinicsDataset() *Dataset {
	return New([]string{"nome", "cidade"}, [][]string{
		{"Clínica São José", "São Paulo"},
		{"Hospital Central", "Rio de Janeiro"},
	})
}

func TestSearch_AccentInsensitive(t *testing.T) {
	d := clinicsDataset()

	res, err := d.Search("José")
	require.NoError(t, err)
	assert.Equal(t, "jose", res.Term)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "clinica sao jose", res.Results[0].Get("nome"))
}

func TestSearch_AnyColumn(t *testing.T) {
	d := clinicsDataset()

	res, err := d.Search("JANEIRO")
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "hospital central", res.Results[0].Get("nome"))

	// "sao" appears in both columns of the first row only.
	res, err = d.Search("são")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestSearch_SubstringNotWordAware(t *testing.T) {
	d := New([]string{"ramo"}, [][]string{{"Moda"}, {"Saude"}})

	res, err := d.Search("od")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "moda", res.Results[0].Get("ramo"))
}

func TestSearch_NoMatch(t *testing.T) {
	res, err := clinicsDataset().Search("curitiba")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Results)
	assert.NotNil(t, res.Results)
}

func TestSearch_Truncation(t *testing.T) {
	rows := make([][]string, 60)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i), "ATIVO"}
	}
	d := New([]string{"id", "situacao"}, rows)

	res, err := d.Search("ativo")
	require.NoError(t, err)
	assert.Equal(t, 60, res.Total)
	require.Len(t, res.Results, PageSize)
	for i, rec := range res.Results {
		assert.Equal(t, strconv.Itoa(i), rec.Get("id"), "results must keep file order")
	}
}

func TestSearch_TermTooShort(t *testing.T) {
	d := clinicsDataset()

	for _, term := range []string{"", "a", "Á", "á"} {
		_, err := d.Search(term)
		assert.ErrorIs(t, err, ErrTermTooShort, "term %q", term)
	}
}

func TestSearch_EmptyDataset(t *testing.T) {
	for _, d := range []*Dataset{Empty(), nil, New([]string{"nome"}, nil)} {
		_, err := d.Search("hospital")
		assert.ErrorIs(t, err, ErrDataUnavailable)
		// Data availability is checked before the term.
		_, err = d.Search("a")
		assert.ErrorIs(t, err, ErrDataUnavailable)
	}
}

func TestSearch_Properties(t *testing.T) {
	rows := [][]string{}
	words := []string{"saude", "odonto", "medicina", "ativa", "cooperativa", "moda"}
	for i := 0; i < 300; i++ {
		rows = append(rows, []string{words[i%len(words)], words[(i*7)%len(words)], strconv.Itoa(i)})
	}
	d := New([]string{"a", "b", "id"}, rows)

	for _, term := range []string{"od", "ativa", "Saúde", "co", "10", "zz"} {
		res, err := d.Search(term)
		require.NoError(t, err)

		norm := Normalize(term)
		want := 0
		for i := 0; i < d.Len(); i++ {
			if d.Record(i).contains(norm) {
				want++
			}
		}
		assert.Equal(t, want, res.Total, "total for %q", term)
		assert.LessOrEqual(t, len(res.Results), PageSize)
		assert.GreaterOrEqual(t, res.Total, len(res.Results))
		for _, rec := range res.Results {
			found := false
			for _, v := range rec.Values() {
				if strings.Contains(v, norm) {
					found = true
				}
			}
			assert.True(t, found, "record %v does not contain %q", rec.Values(), norm)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	d := clinicsDataset()
	first, err := d.Search("al")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := d.Search("al")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
