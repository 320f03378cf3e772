// Package mcpserver exposes comedy generation as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/prefs"
	"github.com/apresai/comedian/internal/publish"
	"github.com/apresai/comedian/internal/tts"
)

// DefaultAddr is where the streamable HTTP transport listens.
const DefaultAddr = ":8000"

// Comedian runs the pipeline and reports the preferences it will start from.
type Comedian interface {
	pipeline.Submitter
	Preferences() prefs.Preferences
}

// VoiceCatalog lists voices and resolves names to IDs.
type VoiceCatalog interface {
	Voices() []tts.Voice
	Resolve(nameOrID string) (string, error)
}

// FolderPublisher uploads a finished run folder.
type FolderPublisher interface {
	PublishFolder(ctx context.Context, dir string) ([]publish.Object, error)
}

// Server is the MCP server for comedy generation.
type Server struct {
	mcp      *server.MCPServer
	handlers *Handlers
	log      *slog.Logger
}

// New registers the comedy tools. pub may be nil when no bucket is configured.
func New(comedian Comedian, voices VoiceCatalog, pub FolderPublisher, logger *slog.Logger, version string) *Server {
	handlers := NewHandlers(comedian, voices, pub, logger)

	mcpServer := server.NewMCPServer(
		"comedian",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools := ToolDefs()
	mcpServer.AddTool(tools[0], handlers.HandleGenerateComedy)
	mcpServer.AddTool(tools[1], handlers.HandleListVoices)
	mcpServer.AddTool(tools[2], handlers.HandleListStyles)

	return &Server{mcp: mcpServer, handlers: handlers, log: logger}
}

// ServeHTTP runs the streamable HTTP transport until ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting MCP server", "addr", addr)
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// ServeStdio serves MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("Starting MCP server on stdio")
	return server.ServeStdio(s.mcp)
}
