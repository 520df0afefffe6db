package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/hazyhaar/cadop-search/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urfave/cli/v2"
)

func searchCommand(c *cli.Context) error {
	term := strings.Join(c.Args().Slice(), " ")
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	d, err := dataset.Load(cfg.Source)
	if err != nil {
		return err
	}
	res, err := d.Search(term)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func remoteCommand(c *cli.Context) error {
	term := strings.Join(c.Args().Slice(), " ")
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	client := mcpquic.NewClient(c.String("server"), mcpquic.ClientTLSConfig(c.Bool("insecure")))
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	res, err := client.CallTool(ctx, "search_operators", map[string]any{"term": term})
	if err != nil {
		return err
	}
	for _, content := range res.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			fmt.Println(text.Text)
		}
	}
	if res.IsError {
		return fmt.Errorf("remote search failed")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
