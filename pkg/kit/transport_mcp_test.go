package kit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// callTransportTool registers a tool that reports the transport it ran
// under and calls it through HandleMessage with ctx.
func callTransportTool(t *testing.T, ctx context.Context) string {
	t.Helper()
	srv := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))

	var got string
	RegisterMCPTool(srv, mcp.NewTool("transport"), func(ctx context.Context, _ any) (any, error) {
		got = GetTransport(ctx)
		if GetRequestID(ctx) == "" {
			t.Error("expected a request id")
		}
		return got, nil
	}, func(mcp.CallToolRequest) (any, error) { return nil, nil })

	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": "transport", "arguments": map[string]any{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp := srv.HandleMessage(ctx, msg); resp == nil {
		t.Fatal("nil response")
	}
	return got
}

func TestRegisterMCPTool_Transport(t *testing.T) {
	if got := callTransportTool(t, context.Background()); got != TransportMCP {
		t.Errorf("untagged call: transport = %q, want %q", got, TransportMCP)
	}
	ctx := WithTransport(context.Background(), TransportMCPQUIC)
	if got := callTransportTool(t, ctx); got != TransportMCPQUIC {
		t.Errorf("QUIC call: transport = %q, want %q", got, TransportMCPQUIC)
	}
}
