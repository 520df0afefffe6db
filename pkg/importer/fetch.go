package importer

import (
	"context"
	"fmt"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
)

// Fetch imports adapterID from the URL recorded in sdb into dest and
// records the row count.
func Fetch(ctx context.Context, sdb *SourceDB, adapterID string, dest dataset.SourceSpec) (int, error) {
	a, err := Get(adapterID)
	if err != nil {
		return 0, err
	}
	url, err := sdb.GetURL(adapterID)
	if err != nil {
		return 0, err
	}
	rows, err := a.Import(ctx, url, dest)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", adapterID, err)
	}
	if err := sdb.RecordImport(adapterID, rows); err != nil {
		return rows, err
	}
	return rows, nil
}
