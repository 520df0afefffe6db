package api

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/hazyhaar/cadop-search/pkg/kit"
)

// Shared request types used by both HTTP and MCP transports.

type searchReq struct {
	Term string
}

type healthResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// endpoints are the transport-agnostic actions backed by the store, each
// wrapped with panic recovery and logging.
type endpoints struct {
	search      kit.Endpoint
	datasetInfo kit.Endpoint
	health      kit.Endpoint
}

func newEndpoints(store *dataset.Store, logger *slog.Logger) endpoints {
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Recover(logger), kit.Logging(logger, name))(ep)
	}
	return endpoints{
		search:      wrap("search", searchEndpoint(store)),
		datasetInfo: wrap("dataset_info", datasetInfoEndpoint(store)),
		health:      wrap("health", healthEndpoint(store)),
	}
}

func searchEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		return store.Search(req.Term)
	}
}

func datasetInfoEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return store.Current().Info(), nil
	}
}

func healthEndpoint(store *dataset.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		d := store.Current()
		status := "ok"
		if d.Empty() {
			status = "degraded"
		}
		return healthResponse{Status: status, Rows: d.Len()}, nil
	}
}
