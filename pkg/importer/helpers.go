// CLAUDE:SUMMARY Shared import utilities: HTTP download with retries, validated atomic install, provenance YAML writer.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"gopkg.in/yaml.v3"
)

// downloadFile downloads url to dest with retries and timeout.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}

		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

// installFile checks that tmp loads as a non-empty dataset with dest's
// delimiter and encoding, then renames it over dest.Path. A running server
// never sees a half-written file: rename is atomic on the same filesystem.
func installFile(tmp string, dest dataset.SourceSpec) (int, error) {
	check := dest
	check.Path = tmp
	d, err := dataset.Load(check)
	if err != nil {
		return 0, fmt.Errorf("validate download: %w", err)
	}
	if d.Empty() {
		return 0, fmt.Errorf("validate download: %s has no rows", tmp)
	}
	if err := os.Rename(tmp, dest.Path); err != nil {
		return 0, fmt.Errorf("install %s: %w", dest.Path, err)
	}
	return d.Len(), nil
}

// Provenance records where an installed source file came from.
type Provenance struct {
	Adapter   string    `yaml:"adapter"`
	SourceURL string    `yaml:"source_url"`
	License   string    `yaml:"license"`
	Rows      int       `yaml:"rows"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// ProvenancePath is the sidecar file written next to an installed source.
func ProvenancePath(dataPath string) string {
	return dataPath + ".source.yaml"
}

// writeProvenance writes p as YAML next to dataPath.
func writeProvenance(dataPath string, p *Provenance) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal provenance: %w", err)
	}
	return os.WriteFile(ProvenancePath(dataPath), data, 0o644)
}

// ReadProvenance reads the sidecar of dataPath.
func ReadProvenance(dataPath string) (*Provenance, error) {
	data, err := os.ReadFile(ProvenancePath(dataPath))
	if err != nil {
		return nil, err
	}
	var p Provenance
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse provenance: %w", err)
	}
	return &p, nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
