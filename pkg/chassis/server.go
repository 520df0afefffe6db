// Package chassis serves the search API over TLS on one port, two sockets:
//   - TCP -> HTTP/1.1 + HTTP/2
//   - UDP -> QUIC, demuxed by ALPN: "h3" -> HTTP/3 (same handler),
//     mcpquic.ALPNProtocolMCP -> MCP JSON-RPC over a QUIC stream.
//
// TCP responses advertise HTTP/3 through Alt-Svc. Without cert files a
// self-signed development certificate is generated.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/hazyhaar/cadop-search/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// Config holds configuration for the chassis server.
type Config struct {
	Addr      string            // TCP and UDP, same port
	CertFile  string            // empty with KeyFile empty = self-signed
	KeyFile   string
	Handler   http.Handler      // HTTP API
	MCPServer *server.MCPServer // nil disables MCP
	Logger    *slog.Logger
}

// Server runs the TCP and QUIC listeners.
type Server struct {
	cfg    Config
	tlsCfg *tls.Config
	mcp    *mcpquic.Handler

	mu  sync.Mutex
	tcp *http.Server
	h3  *http3.Server
	ln  *quic.Listener
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Handler == nil {
		return nil, errors.New("chassis: nil handler")
	}

	tlsCfg, err := mcpquic.ServerTLSConfig(cfg.CertFile, cfg.KeyFile, http3.NextProtoH3, mcpquic.ALPNProtocolMCP)
	if err != nil {
		return nil, fmt.Errorf("chassis TLS: %w", err)
	}
	if cfg.CertFile == "" {
		cfg.Logger.Warn("TLS: using a self-signed development certificate")
	}

	s := &Server{cfg: cfg, tlsCfg: tlsCfg}
	if cfg.MCPServer != nil {
		s.mcp = mcpquic.NewHandler(cfg.MCPServer, cfg.Logger)
	}
	return s, nil
}

// Start binds both listeners and serves until ctx is done or a listener fails.
func (s *Server) Start(ctx context.Context) error {
	handler := securityHeaders(altSvc(s.cfg.Addr, s.cfg.Handler))

	tcpTLS := s.tlsCfg.Clone()
	tcpTLS.NextProtos = []string{"h2", "http/1.1"}
	tcpLn, err := tls.Listen("tcp", s.cfg.Addr, tcpTLS)
	if err != nil {
		return fmt.Errorf("TCP listen: %w", err)
	}
	quicLn, err := quic.ListenAddr(s.cfg.Addr, s.tlsCfg, mcpquic.QUICConfig())
	if err != nil {
		tcpLn.Close()
		return fmt.Errorf("QUIC listen: %w", err)
	}

	s.mu.Lock()
	s.tcp = &http.Server{Handler: handler}
	s.h3 = &http3.Server{Handler: handler}
	s.ln = quicLn
	s.mu.Unlock()

	s.cfg.Logger.Info("chassis started",
		"addr", s.cfg.Addr,
		"tcp", "HTTP/1.1+HTTP/2 (TLS)",
		"udp", "QUIC (HTTP/3 + MCP)",
		"mcp", s.mcp != nil,
	)

	errCh := make(chan error, 2)
	go func() {
		if err := s.tcp.Serve(tcpLn); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()
	go func() {
		if err := s.acceptQUIC(ctx, quicLn); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// acceptQUIC demuxes incoming QUIC connections by negotiated ALPN.
func (s *Server) acceptQUIC(ctx context.Context, ln *quic.Listener) error {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("QUIC accept: %w", err)
		}

		switch alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn {
		case http3.NextProtoH3:
			go func() {
				if err := s.h3.ServeQUICConn(conn); err != nil {
					s.cfg.Logger.Debug("HTTP/3 conn done", "remote", conn.RemoteAddr(), "error", err)
				}
			}()
		case mcpquic.ALPNProtocolMCP:
			if s.mcp == nil {
				conn.CloseWithError(mcpquic.ConnErrorMCPDisabled, "MCP not enabled")
				continue
			}
			go s.mcp.ServeConn(ctx, conn)
		default:
			s.cfg.Logger.Warn("unknown ALPN, closing", "alpn", alpn, "remote", conn.RemoteAddr())
			conn.CloseWithError(mcpquic.ConnErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
		}
	}
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.tcp != nil {
		errs = append(errs, s.tcp.Shutdown(ctx))
	}
	if s.h3 != nil {
		errs = append(errs, s.h3.Close())
	}
	if s.ln != nil {
		errs = append(errs, s.ln.Close())
	}
	s.cfg.Logger.Info("chassis stopped")
	return errors.Join(errs...)
}

// securityHeaders adds standard hardening headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// altSvc advertises HTTP/3 on the same port.
func altSvc(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "443"
	}
	value := fmt.Sprintf(`h3=":%s"; ma=86400`, port)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", value)
		next.ServeHTTP(w, r)
	})
}
