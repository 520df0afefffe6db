package kit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // one of the Transport* values
	RequestIDKey contextKey = "kit_request_id"
)

// Transport names carried under TransportKey.
const (
	TransportHTTP    = "http"     // HTTP API, any protocol version
	TransportMCP     = "mcp"      // MCP tool call without a transport tag
	TransportMCPQUIC = "mcp_quic" // MCP JSON-RPC over a QUIC stream
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportHTTP
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// NewRequestID returns a short random identifier for log correlation.
func NewRequestID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
