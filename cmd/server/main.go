package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "cadop-search",
		Usage:   "Search the ANS health plan operator registry",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Path to the CADOP CSV (overrides source.path)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API (and HTTP/3 + MCP over QUIC when TLS is enabled)",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address (overrides addr)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one query against the CSV and print the JSON result",
				ArgsUsage: "<term>",
				Action:    searchCommand,
			},
			{
				Name:   "fetch",
				Usage:  "Download the CADOP CSV from its recorded source URL",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Import adapter ID",
						Value: "ans-cadop",
					},
				},
			},
			{
				Name:   "sources",
				Usage:  "List import sources and their last check",
				Action: sourcesCommand,
				Subcommands: []*cli.Command{
					{
						Name:      "set-url",
						Usage:     "Override the download URL of a source",
						ArgsUsage: "<adapter-id> <url>",
						Action:    setURLCommand,
					},
				},
			},
			{
				Name:      "remote",
				Usage:     "Query a running server over MCP/QUIC",
				ArgsUsage: "<term>",
				Action:    remoteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "server",
						Aliases:  []string{"s"},
						Usage:    "Server address (host:port)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "insecure",
						Usage: "Accept self-signed server certificates",
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
