package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apresai/comedian/internal/cli"
	"github.com/apresai/comedian/internal/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if observability.TracingEnabled() {
		if tp, err := observability.InitTracer(ctx, "comedian", cli.Version); err == nil {
			defer tp.Shutdown(context.Background())
		}
	}

	if err := cli.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
