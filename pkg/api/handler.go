package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/hazyhaar/cadop-search/pkg/kit"
)

// NewRouter returns an http.Handler with all search API routes.
func NewRouter(store *dataset.Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{eps: newEndpoints(store, logger)}

	mux.HandleFunc("GET /buscar", h.handleBuscar)
	mux.HandleFunc("GET /v1/search", h.handleSearch)
	mux.HandleFunc("GET /v1/dataset", h.handleDatasetInfo)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(accessLog(logger, mux))
}

type handler struct {
	eps endpoints
}

// --- search ---

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.search(r.Context(), &searchReq{Term: r.URL.Query().Get("term")})
	if err != nil {
		writeError(w, statusFor(err), publicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- legacy search (/buscar, Portuguese payload keys) ---

type legacyResponse struct {
	Termo      string           `json:"termo"`
	Total      int              `json:"total"`
	Resultados []dataset.Record `json:"resultados"`
}

func (h *handler) handleBuscar(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.search(r.Context(), &searchReq{Term: r.URL.Query().Get("termo")})
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"erro": legacyMessage(err)})
		return
	}
	res := resp.(*dataset.Result)
	writeJSON(w, http.StatusOK, legacyResponse{
		Termo:      res.Term,
		Total:      res.Total,
		Resultados: res.Results,
	})
}

// --- dataset info ---

func (h *handler) handleDatasetInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.datasetInfo(r.Context(), nil)
	if err != nil {
		writeError(w, statusFor(err), publicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.health(r.Context(), nil)
	if err != nil {
		writeError(w, statusFor(err), publicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog tags the request with an id and logs one line per request.
func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = kit.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), kit.TransportHTTP)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}
