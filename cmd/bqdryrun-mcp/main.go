package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/mevdschee/bqdryrun"
	"github.com/mevdschee/bqdryrun/internal/server"
	"github.com/mevdschee/bqdryrun/internal/server/metrics"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	projectEnvVar     = "BQ_PROJECT"
	locationEnvVar    = "BQ_LOCATION"
	priceEnvVar       = "SAFE_PRICE_PER_TIB"
	metricsAddrEnvVar = "BQ_DRYRUN_METRICS_ADDR"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	defaultPrice, err := priceFromEnv()
	if err != nil {
		return err
	}

	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	projectFlag := flag.String("project", os.Getenv(projectEnvVar), "BigQuery project (defaults to the project of the credentials, or set "+projectEnvVar+")")
	locationFlag := flag.String("location", envOr(locationEnvVar, bqdryrun.DefaultLocation), "BigQuery query location (or set "+locationEnvVar+")")
	priceFlag := flag.Float64("price-per-tib", defaultPrice, "default USD price per TiB for estimates (or set "+priceEnvVar+")")
	metricsAddrFlag := flag.String("metrics-addr", os.Getenv(metricsAddrEnvVar), "address to serve prometheus metrics on; empty disables (or set "+metricsAddrEnvVar+")")
	versionFlag := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("bqdryrun-mcp %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}
	if err := bqdryrun.ValidatePrice(*priceFlag); err != nil {
		return fmt.Errorf("invalid --price-per-tib: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := newLogger(*verboseFlag)

	var metricsServerErrCh = make(chan error, 1)
	if *metricsAddrFlag != "" {
		metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", *metricsAddrFlag)
			if err != nil {
				log.Error("failed to start prometheus metrics server listener", "error", err)
				metricsServerErrCh <- err
				return
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, mux); err != nil {
				log.Error("failed to start prometheus metrics server", "error", err)
				metricsServerErrCh <- err
				return
			}
		}()
	}

	client, err := bqdryrun.NewClient(ctx, *projectFlag, *locationFlag)
	if err != nil {
		return err
	}
	defer client.Close()
	log.Info("bigquery client ready", "project", client.Project(), "location", client.Location)

	svc := bqdryrun.NewService(client, bqdryrun.WithDefaultPrice(*priceFlag))

	srv, err := server.New(server.Config{
		Logger:  log,
		Service: svc,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErrCh:
		return err
	case err := <-metricsServerErrCh:
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func priceFromEnv() (float64, error) {
	v := os.Getenv(priceEnvVar)
	if v == "" {
		return bqdryrun.DefaultPricePerTiB, nil
	}
	price, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid float, got %q", priceEnvVar, v)
	}
	if err := bqdryrun.ValidatePrice(price); err != nil {
		return 0, fmt.Errorf("%s: %w", priceEnvVar, err)
	}
	return price, nil
}

// newLogger writes to stderr; stdout carries the MCP stream.
func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(formatRFC3339Millis(t))
			}
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func formatRFC3339Millis(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	ms := t.Nanosecond() / 1_000_000
	return fmt.Sprintf("%s.%03dZ", base, ms)
}
