package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/stratum-ui/stratum/internal/config"
	"github.com/stratum-ui/stratum/pkg/fragment"
	"github.com/stratum-ui/stratum/pkg/middleware"
	"github.com/stratum-ui/stratum/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		cfgPath string
		port    int
		host    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stratum session server",
		Long: `Run the session server.

Serves the host document, a static directory for assets and fragments, the
WebSocket session endpoint at /_stratum/ws, and Prometheus metrics at
/metrics. Configuration comes from stratum.json in the working directory
unless --config points elsewhere.

Examples:
  stratum serve
  stratum serve --port=8080
  stratum serve --config=deploy/stratum.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath, host, port)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to stratum.json (default ./stratum.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from stratum.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from stratum.json)")

	return cmd
}

func runServe(cfgPath, host string, port int) error {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFile(cfgPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	document, err := loadDocument(cfg)
	if err != nil {
		return err
	}

	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Document: document,
		Source:   source,
		Logger:   log,
	})

	r := chi.NewRouter()
	r.Use(
		middleware.Logger(log),
		middleware.Prometheus(),
		middleware.OpenTelemetry(middleware.WithRequestFilter(func(req *http.Request) bool {
			return req.URL.Path != "/metrics"
		})),
	)
	r.Mount("/_stratum", srv.Routes())
	r.Handle("/metrics", promhttp.Handler())
	if cfg.Static != "" {
		cache := server.CacheProduction
		if cfg.LogLevel == "debug" {
			cache = server.CacheNone
		}
		r.Handle("/*", server.NewStatic(cfg.Static, cache))
	} else {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, document)
		})
	}

	httpSrv := &http.Server{
		Addr:    cfg.Address(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("stratum listening", "addr", cfg.Address())
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	}

	srv.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// loadDocument reads the host document, falling back to a minimal page with
// one empty container when none is configured.
func loadDocument(cfg *config.Config) (string, error) {
	if cfg.Document == "" {
		return `<!doctype html><html><head><title>stratum</title></head><body><div data-container id="main"></div></body></html>`, nil
	}
	data, err := os.ReadFile(cfg.Document)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// buildSource constructs the fragment source the config selects.
func buildSource(cfg *config.Config) (fragment.Source, error) {
	switch cfg.Source.Kind {
	case "s3":
		client := s3.New(s3.Options{Region: cfg.Source.Region})
		return fragment.NewS3Source(client, cfg.Source.Bucket, cfg.Source.Prefix), nil
	default:
		base := cfg.Source.BaseURL
		if base == "" {
			base = fmt.Sprintf("http://%s/", cfg.Address())
		}
		return fragment.NewHTTPSource(base, nil)
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
