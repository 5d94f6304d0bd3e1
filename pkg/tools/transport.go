package tools

import (
	"context"
	"errors"
	"io"
	stdlog "log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// ServeStdio serves s over newline-delimited JSON-RPC on in/out until in is
// exhausted or ctx is canceled.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, log zerolog.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(log, "", 0))

	log.Info().Str("transport", "stdio").Msg("serving MCP")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// NewHTTPHandler returns the streamable HTTP transport for s mounted at
// endpoint.
func NewHTTPHandler(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(endpoint))
}

// ServeHTTP serves s over streamable HTTP on addr until ctx is canceled, then
// shuts down gracefully.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr, endpoint string, log zerolog.Logger) error {
	httpSrv := NewHTTPHandler(s, endpoint)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("transport", "http").Str("addr", addr).Str("endpoint", endpoint).Msg("serving MCP")
		errCh <- httpSrv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
