package chassis

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_RequiresHandler(t *testing.T) {
	if _, err := New(Config{Addr: "127.0.0.1:0"}); err == nil {
		t.Error("expected error for nil handler")
	}
}

func TestNew_SelfSigned(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.tlsCfg.Certificates) != 1 {
		t.Fatalf("certificates = %d, want 1", len(s.tlsCfg.Certificates))
	}
	protos := s.tlsCfg.NextProtos
	if len(protos) != 2 || protos[0] != "h3" || protos[1] != "cadop-mcp-v1" {
		t.Errorf("NextProtos = %v, want [h3 cadop-mcp-v1]", protos)
	}
	if s.mcp != nil {
		t.Error("MCP handler should be nil without an MCP server")
	}
}

func TestMiddlewares(t *testing.T) {
	h := securityHeaders(altSvc(":8443", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if got := rec.Header().Get("Alt-Svc"); got != `h3=":8443"; ma=86400` {
		t.Errorf("Alt-Svc = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}
