package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/logfields"
	"git.home.luguber.info/inful/siteconfig/internal/metrics"
	"git.home.luguber.info/inful/siteconfig/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	File        string        `arg:"" optional:"" help:"Configuration file (defaults to --config)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (empty disables)" env:"SITECONFIG_METRICS_ADDR"`
	Debounce    time.Duration `help:"Quiet period before reloading" default:"500ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunWatch(ctx, g, WatchOptions{
		Path:        configPath(w.File, root),
		MetricsAddr: w.MetricsAddr,
		Debounce:    w.Debounce,
	})
}

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Path        string
	MetricsAddr string
	Debounce    time.Duration
	// Ready, when set, receives the metrics listener address (or "") once
	// watching has started.
	Ready func(metricsAddr string)
}

// RunWatch loads the configuration, then reloads it on every change until
// ctx is cancelled. The initial load must succeed; later failures are
// logged and the previous record stays in effect.
func RunWatch(ctx context.Context, g *Global, opts WatchOptions) error {
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	loader := g.Loader().WithRecorder(recorder)

	handler := func(ev watch.Event) {
		if ev.Err != nil || !ev.Changed {
			return
		}
		fmt.Fprintf(g.Out, "%s: loaded %d options (%s)\n", ev.Record.Source, ev.Record.Len(), ev.Record.Fingerprint()[:12])
	}

	wopts := []watch.Option{
		watch.WithLoader(loader),
		watch.WithLogger(g.Logger),
		watch.WithRecorder(recorder),
	}
	if opts.Debounce > 0 {
		wopts = append(wopts, watch.WithDebounce(opts.Debounce))
	}
	w, err := watch.New(opts.Path, handler, wopts...)
	if err != nil {
		return err
	}
	if ev := w.Reload(); ev.Err != nil {
		return ev.Err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := w.Stop(); err != nil {
			g.Logger.Warn("Failed to stop watcher", logfields.Error(err))
		}
	}()

	var addr string
	if opts.MetricsAddr != "" {
		srv, ln, err := serveMetrics(g, reg, opts.MetricsAddr)
		if err != nil {
			return err
		}
		addr = ln.Addr().String()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if opts.Ready != nil {
		opts.Ready(addr)
	}
	<-ctx.Done()
	g.Logger.Info("Shutdown signal received, stopping watcher")
	return nil
}

func serveMetrics(g *Global, reg *prom.Registry, addr string) (*http.Server, net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to listen for metrics").
			WithContext(ferrors.ContextKey, "metrics-addr").
			UserAction().
			Build()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.Logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	g.Logger.Info("Serving metrics", logfields.Addr(ln.Addr().String()))
	return srv, ln, nil
}
