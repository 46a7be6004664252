package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahjat/crawl-insight/internal/crawlclient"
	"github.com/Bahjat/crawl-insight/internal/crawlview"
	"github.com/Bahjat/crawl-insight/internal/dashboard"
	"github.com/Bahjat/crawl-insight/internal/platform/config"
	"github.com/Bahjat/crawl-insight/internal/platform/logger"
	"github.com/Bahjat/crawl-insight/internal/platform/middleware"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, os.Stdout)

	client := crawlclient.New(cfg.BackendBase, cfg.BackendTimeout)
	rewriter := crawlview.NewRewriter(cfg.ProxyBase)
	svc := dashboard.NewService(client, rewriter, log)
	transport := dashboard.NewTransport(svc, log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.Logging(log)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigin)(handler)
	handler = middleware.RequestID(handler)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A crawl can take as long as the backend timeout.
		WriteTimeout: cfg.BackendTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			"addr", srv.Addr,
			"backend", client.BaseURL(),
			"proxy", rewriter.ProxyBase(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
