package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	src := writeSource(t, "nome;cidade\nClínica São José;São Paulo\nHospital Central;Rio de Janeiro\n")

	s := OpenStore(src)
	assert.Equal(t, 2, s.Current().Len())

	res, err := s.Search("jose")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestOpenStore_MissingFileServesEmpty(t *testing.T) {
	s := OpenStore(SourceSpec{Path: filepath.Join(t.TempDir(), "missing.csv")})

	require.NotNil(t, s.Current())
	assert.True(t, s.Current().Empty())
	_, err := s.Search("jose")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestStore_Reload(t *testing.T) {
	src := writeSource(t, "nome\nHospital A\n")
	s := OpenStore(src)
	before := s.Current()
	require.Equal(t, 1, before.Len())

	require.NoError(t, os.WriteFile(src.Path, []byte("nome\nHospital A\nHospital B\n"), 0o644))
	require.NoError(t, s.Reload())

	assert.Equal(t, 2, s.Current().Len())
	// The old snapshot is untouched.
	assert.Equal(t, 1, before.Len())
}

func TestStore_ReloadFailureKeepsSnapshot(t *testing.T) {
	src := writeSource(t, "nome\nHospital A\n")
	s := OpenStore(src)

	require.NoError(t, os.Remove(src.Path))
	err := s.Reload()
	var le *LoadError
	require.ErrorAs(t, err, &le)

	assert.Equal(t, 1, s.Current().Len())
}

func TestStore_WithScanner(t *testing.T) {
	sc, err := NewScanner(2, WithMinChunk(10))
	require.NoError(t, err)
	defer sc.Release()

	s := NewStore(SourceSpec{}, WithScanner(sc))
	s.Publish(largeDataset(1_000))

	res, err := s.Search("ativa")
	require.NoError(t, err)
	want, _ := s.Current().Search("ativa")
	assert.Equal(t, want, res)
}

func TestStore_PublishNil(t *testing.T) {
	s := NewStore(SourceSpec{})
	s.Publish(nil)
	require.NotNil(t, s.Current())
	assert.True(t, s.Current().Empty())
}

func TestStore_ConcurrentReadsDuringReload(t *testing.T) {
	src := writeSource(t, "nome\nHospital A\nHospital B\n")
	s := OpenStore(src)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				res, err := s.Search("hospital")
				if assert.NoError(t, err) {
					// Every snapshot is complete: either 2 or 3 rows, never partial.
					assert.Contains(t, []int{2, 3}, res.Total)
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		content := "nome\nHospital A\nHospital B\n"
		if i%2 == 0 {
			content += "Hospital C\n"
		}
		require.NoError(t, os.WriteFile(src.Path, []byte(content), 0o644))
		require.NoError(t, s.Reload())
	}
	cancel()
	wg.Wait()
}

func TestStore_Watch(t *testing.T) {
	src := writeSource(t, "nome\nHospital A\n")
	s := OpenStore(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Watch(ctx, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(src.Path, []byte("nome\nHospital A\nHospital B\n"), 0o644))
	// Make sure the mtime moves even on coarse filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(src.Path, future, future))

	assert.Eventually(t, func() bool { return s.Current().Len() == 2 }, 2*time.Second, 10*time.Millisecond)
}
