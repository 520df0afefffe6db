// CLAUDE:SUMMARY Parallel linear scan: splits the record slice into contiguous chunks on an ants worker pool and merges in file order.
package dataset

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultMinChunk is the smallest chunk worth handing to a worker.
const DefaultMinChunk = 4096

// Scanner runs Search over a shared worker pool. Results are identical to
// Dataset.Search: every chunk writes only to its own slot and the merge
// walks the slots in order.
type Scanner struct {
	pool     *ants.Pool
	workers  int
	minChunk int
	logger   *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithMinChunk sets the smallest number of records per chunk.
// Datasets smaller than this are scanned on the calling goroutine.
func WithMinChunk(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.minChunk = n
		}
	}
}

// WithScannerLogger sets the logger. Default is slog.Default().
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a scanner with the given number of workers.
// workers <= 0 uses runtime.NumCPU().
func NewScanner(workers int, opts ...ScannerOption) (*Scanner, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s := &Scanner{workers: workers, minChunk: DefaultMinChunk, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create scan pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Release stops the worker pool.
func (s *Scanner) Release() {
	s.pool.Release()
}

// Search is Dataset.Search spread across the pool.
func (s *Scanner) Search(d *Dataset, term string) (*Result, error) {
	norm, err := d.prepare(term)
	if err != nil {
		return nil, err
	}

	n := len(d.records)
	chunks := s.workers
	if n/chunks < s.minChunk {
		chunks = max(1, n/s.minChunk)
	}
	if chunks == 1 {
		p := d.scanRange(norm, 0, n, PageSize)
		return &Result{Term: norm, Total: p.total, Results: p.page}, nil
	}

	parts := make([]partial, chunks)
	size := (n + chunks - 1) / chunks
	var wg sync.WaitGroup
	for i := 0; i < chunks; i++ {
		lo, hi := i*size, min((i+1)*size, n)
		if lo >= hi {
			continue
		}
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					parts[i].panic = r
				}
			}()
			parts[i] = d.scanRange(norm, lo, hi, PageSize)
		}
		wg.Add(1)
		if err := s.pool.Submit(task); err != nil {
			s.logger.Debug("scan pool unavailable, scanning inline", "error", err)
			task()
		}
	}
	wg.Wait()

	res := &Result{Term: norm, Results: make([]Record, 0, PageSize)}
	for _, p := range parts {
		if p.panic != nil {
			panic(p.panic)
		}
		res.Total += p.total
		for _, rec := range p.page {
			if len(res.Results) == PageSize {
				break
			}
			res.Results = append(res.Results, rec)
		}
	}
	return res, nil
}
