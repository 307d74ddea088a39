package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"
)

func newMetricsServer(port string, reg *metrics.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serveMetrics exposes reg until ctx is canceled. Port "0" disables it.
func serveMetrics(ctx context.Context, port string, reg *metrics.Registry) {
	if port == "" || port == "0" {
		return
	}
	srv := newMetricsServer(port, reg)

	go func() {
		logger.Info("Serving metrics", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
