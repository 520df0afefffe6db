// CLAUDE:SUMMARY CLI subcommands that download the CADOP CSV via import adapters and manage the source table.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/importer"
	"github.com/urfave/cli/v2"
)

// openSources opens the source DB and seeds it with the registered adapters.
func openSources(cfg config) (*importer.SourceDB, error) {
	sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
	if err != nil {
		return nil, err
	}
	if err := sdb.Seed(importer.All()); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("seed sources: %w", err)
	}
	return sdb, nil
}

func fetchCommand(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	sdb, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer sdb.Close()

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Minute)
	defer cancel()

	id := c.String("source")
	fmt.Printf("[%s] importing...\n", id)
	rows, err := importer.Fetch(ctx, sdb, id, cfg.Source)
	if err != nil {
		return err
	}
	fmt.Printf("[%s] OK: %d rows -> %s\n", id, rows, cfg.Source.Path)
	return nil
}

func sourcesCommand(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	sdb, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer sdb.Close()

	sources, err := sdb.ListSources()
	if err != nil {
		return err
	}
	for _, src := range sources {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [%d]", *src.LastStatus)
		}
		imported := ""
		if src.LastImport != nil && src.LastRows != nil {
			imported = fmt.Sprintf("  imported %s (%d rows)",
				time.Unix(*src.LastImport, 0).Format(time.DateTime), *src.LastRows)
		}
		fmt.Printf("  %-12s  %s%s%s\n      %s\n", src.AdapterID, src.Description, status, imported, src.SourceURL)
	}

	p, err := importer.ReadProvenance(cfg.Source.Path)
	switch {
	case err == nil:
		fmt.Printf("\n%s: %d rows from %s (%s), fetched %s, license %s\n",
			cfg.Source.Path, p.Rows, p.Adapter, p.SourceURL, p.FetchedAt.Format(time.DateTime), p.License)
	case errors.Is(err, os.ErrNotExist):
		fmt.Printf("\n%s: no provenance record (not fetched by this tool)\n", cfg.Source.Path)
	default:
		return err
	}
	return nil
}

func setURLCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: sources set-url <adapter-id> <url>")
	}
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	sdb, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer sdb.Close()

	return sdb.SetURL(c.Args().Get(0), c.Args().Get(1))
}
