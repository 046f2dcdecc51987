package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/metrics"
)

// transformRegistry collects transform metrics for every pipeline in the
// process. A single registry keeps watch-mode pipeline swaps from
// re-registering collectors.
var transformRegistry = prom.NewRegistry()

// resolveRecorder returns the process-wide transform recorder. Collector
// registration happens once; later pipelines share the same instance.
var resolveRecorder = sync.OnceValue(func() metrics.Recorder {
	return metrics.NewPrometheusRecorder(transformRegistry)
})

// serveMetrics exposes the transform registry on addr until ctx is done.
// Default builds carry no scrape endpoint; the handler is nil and the
// request is logged and dropped.
func serveMetrics(ctx context.Context, addr string) {
	handler := metrics.HTTPHandler(transformRegistry)
	if handler == nil {
		slog.Warn("Metrics endpoint not compiled in, rebuild with -tags prometheus",
			slog.String("addr", addr))
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		slog.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics endpoint failed", logfields.Error(err))
		}
	}()
}
