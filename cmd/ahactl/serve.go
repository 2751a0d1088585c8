package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shimmeringbee/aha"
	"github.com/shimmeringbee/aha/metrics"
	"github.com/shimmeringbee/logwrap"
	"io"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// serveMetrics polls the gateway and exposes device state on /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, client *aha.Client, logger logwrap.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	listen := fs.String("listen", ":9103", "address to serve metrics on")
	interval := fs.Duration("interval", 30*time.Second, "gateway polling interval")

	if err := fs.Parse(args); err != nil || *interval <= 0 {
		return errUsage
	}

	if err := client.UpdateDevices(ctx, true); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector(client)); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: *listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	p := newPoller(logger)
	p.Start()
	defer p.Stop()

	p.Add("devices", *interval, func(ctx context.Context) error {
		return client.UpdateDevices(ctx, true)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(out, "serving metrics on %s\n", *listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
