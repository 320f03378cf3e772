package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/apresai/comedian/internal/app"
	"github.com/apresai/comedian/internal/config"
	"github.com/apresai/comedian/internal/mcpserver"
	"github.com/apresai/comedian/internal/observability"
)

var version = "dev"

func main() {
	addr := flag.String("addr", mcpserver.DefaultAddr, "Listen address for the streamable HTTP transport")
	stdio := flag.Bool("stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := observability.InitLogger(os.Stderr, observability.LogOptions{Verbose: *verbose, JSON: true})
	logger.Info("Comedian MCP Server starting...", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if observability.TracingEnabled() {
		tp, err := observability.InitTracer(ctx, "comedian-mcp", version)
		if err != nil {
			logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Error("Tracer shutdown error", "error", err)
				}
			}()
		}
	}

	a, err := app.New(ctx, config.Load(), logger, nil)
	if err != nil {
		logger.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var pub mcpserver.FolderPublisher
	if p, err := a.Publisher(ctx); err != nil {
		logger.Warn("Publishing disabled", "error", err)
	} else if p != nil {
		pub = p
	}

	srv := mcpserver.New(a.Orchestrator, a.Catalog, pub, logger, version)

	if *stdio {
		err = srv.ServeStdio()
	} else {
		err = srv.ServeHTTP(ctx, *addr)
	}
	if err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
