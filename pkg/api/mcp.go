package api

import (
	"fmt"
	"log/slog"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/hazyhaar/cadop-search/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates an MCP server exposing the search tools.
func NewMCPServer(store *dataset.Store, version string, logger *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("cadop-search", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, store, logger)
	return srv
}

// RegisterMCPTools registers the search MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, store *dataset.Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	eps := newEndpoints(store, logger)
	registerSearch(srv, eps.search)
	registerDatasetInfo(srv, eps.datasetInfo)
}

func registerSearch(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("search_operators",
		mcp.WithDescription(fmt.Sprintf(
			"Search the ANS health plan operator registry (CADOP). Matches the term, accent- and case-insensitively, as a substring of any column. Returns the total match count and up to %d records in file order.",
			dataset.PageSize)),
		mcp.WithString("term", mcp.Required(), mcp.Description("Free-text term, at least 2 characters after normalization (e.g. a company name, CNPJ, city)")),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (any, error) {
		term, ok := req.GetArguments()["term"].(string)
		if !ok {
			return nil, fmt.Errorf("term must be a string")
		}
		return &searchReq{Term: term}, nil
	})
}

func registerDatasetInfo(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("dataset_info",
		mcp.WithDescription("Describe the loaded operator registry: source file, columns, row count, skipped rows, load time."),
	)

	kit.RegisterMCPTool(srv, tool, ep, func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}
