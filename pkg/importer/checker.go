package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// RefreshFunc re-imports a source whose upstream file changed.
type RefreshFunc func(ctx context.Context, src Source) error

// Checker performs periodic HEAD requests against all registered import sources,
// persists their availability and optionally refreshes stale ones.
type Checker struct {
	sources  *SourceDB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
	refresh  RefreshFunc
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithRefresh sets the function called when a source's Last-Modified header
// is newer than its last import.
func WithRefresh(fn RefreshFunc) CheckerOption {
	return func(c *Checker) { c.refresh = fn }
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration, opts ...CheckerOption) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll performs a HEAD request on every source URL and persists the result.
func (c *Checker) CheckAll(ctx context.Context) {
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("source check: cannot list sources", "error", err)
		return
	}
	if len(sources) == 0 {
		return
	}

	var ok, failed, refreshed int
	for _, src := range sources {
		if ctx.Err() != nil {
			return
		}

		res := c.checkOne(ctx, src.SourceURL)
		errMsg := ""
		if res.err != nil {
			errMsg = res.err.Error()
		}

		if err := c.sources.UpdateCheck(src.AdapterID, res.status, errMsg); err != nil {
			c.logger.Error("source check: update failed", "adapter", src.AdapterID, "error", err)
		}

		if res.status < 200 || res.status >= 400 {
			failed++
			c.logger.Warn("source unreachable",
				"adapter", src.AdapterID,
				"url", src.SourceURL,
				"status", res.status,
				"error", errMsg,
			)
			continue
		}
		ok++

		if c.refresh != nil && stale(src, res.modified) {
			if err := c.refresh(ctx, src); err != nil {
				c.logger.Error("source refresh failed", "adapter", src.AdapterID, "error", err)
				continue
			}
			refreshed++
		}
	}

	c.logger.Info("source check complete",
		"total", ok+failed, "ok", ok, "failed", failed, "refreshed", refreshed)
}

// stale reports whether the upstream copy is newer than the last import.
// A source never imported is stale; an unknown Last-Modified never is.
func stale(src Source, modified time.Time) bool {
	if src.LastImport == nil {
		return true
	}
	if modified.IsZero() {
		return false
	}
	return modified.Unix() > *src.LastImport
}

type checkResult struct {
	status   int
	modified time.Time
	err      error
}

// checkOne performs a single HEAD request. On network error, status is 0.
func (c *Checker) checkOne(ctx context.Context, url string) checkResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return checkResult{err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return checkResult{err: fmt.Errorf("HEAD %s: %w", url, err)}
	}
	resp.Body.Close()

	res := checkResult{status: resp.StatusCode}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			res.modified = t
		}
	}
	return res
}
