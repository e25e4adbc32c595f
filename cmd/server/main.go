package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scansoal/scansoal/config"
	"github.com/scansoal/scansoal/pkg/otel"
	"github.com/scansoal/scansoal/pkg/store"
	"github.com/scansoal/scansoal/server"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "config.yaml", "config file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "scansoal", version)

	if err != nil {
		slog.Warn("telemetry setup incomplete", "error", err)
	}

	err = run(ctx, *configFlag, *addressFlag)

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	shutdown(flushCtx)
	cancel()

	if err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, address string) error {
	cfg, err := config.Parse(path)

	if err != nil {
		return err
	}

	if address != "" {
		cfg.Address = address
	}

	s, err := server.New(cfg)

	if err != nil {
		return err
	}

	st, err := cfg.Store()

	if err != nil {
		return err
	}

	if c, ok := st.(store.Cleaner); ok {
		go store.RunJanitor(ctx, c, cfg.CleanupInterval())
	}

	return s.ListenAndServe(ctx)
}
