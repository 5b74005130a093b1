// Shape server: answers wake and shape requests over WebSocket with
// normalized point sets.
//
// Usage: go run ./cmd/shapeserver -addr :8000
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	srvCfg := cfg.Server
	if *addr != "" {
		srvCfg.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(srvCfg, cfg.Shape, logger.With("component", "server"))
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
