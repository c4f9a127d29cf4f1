package main

import (
	"context"
	"errors"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"pichu-go/internal/config"
	"pichu-go/internal/logger"
	"pichu-go/internal/rates"
	"syscall"
)

func main() {
	cfg := config.MustConfig()

	log := logger.Setup(cfg.Env, cfg.ErrorLog)

	resolver := rates.NewResolver(log, cfg.Sheet.URL, nil, cfg.Sheet.FetchTimeout)
	if cfg.Sheet.URL == "" {
		log.Warn("SHEET_CSV_URL is not set, serving compiled-in rates")
	}

	srv := newServer(*cfg, log, resolver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}

// newServer wires the router into an http.Server whose write deadline comes
// from http_server.timeout. config.Load keeps sheet.fetch_timeout below it.
func newServer(cfg config.Config, log *slog.Logger, resolver *rates.Resolver) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(cfg, log, resolver),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
}
