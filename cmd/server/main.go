package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"so-http-sync/internal/server"
)

func main() {
	cfg := loadConfig(os.Getenv)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	srv := server.New(server.Config{
		DocRoot:   cfg.DocRoot,
		Confine:   cfg.Confine,
		MaxConns:  cfg.MaxConns,
		IOTimeout: cfg.IOTimeout,
		Logger:    logger,
	})

	// Fallar al abrir el puerto es el único error fatal.
	ln, err := server.Listen(cfg.Port, cfg.Backlog)
	if err != nil {
		logger.Error("listen failed", "port", cfg.Port, "err", err)
		os.Exit(1)
	}
	logger.Info("server running, Ctrl+C to stop",
		"addr", ln.Addr().String(),
		"docroot", cfg.DocRoot,
		"backlog", cfg.Backlog,
		"max_conns", cfg.MaxConns,
		"confine_root", cfg.Confine,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ln) })
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return srv.ServeAdmin(gctx, cfg.MetricsAddr) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "grace", cfg.ShutdownGrace)
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})

	err = g.Wait()
	logger.Info("server stopped", srv.Summary()...)
	if err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
