package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"eventhub/internal/config"
	"eventhub/internal/httpapi"
	"eventhub/internal/hub"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "eventhubd:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		cfgPath  string
		logLevel string
	)
	root := &cobra.Command{
		Use:           "eventhubd",
		Short:         "Pub/sub hub exposing HTTP publish and SSE subscribe",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, cfgPath, logLevel)
		},
	}
	root.Flags().StringVar(&addr, "addr", envOr("EVENTHUB_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&cfgPath, "config", os.Getenv("EVENTHUB_CONFIG"), "Path to a yaml/json/toml config file")
	root.Flags().StringVar(&logLevel, "log-level", envOr("EVENTHUB_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// merge overlays non-zero file config values onto the flag-derived base.
func merge(base, file config.Config) config.Config {
	out := base
	if file.Addr != "" {
		out.Addr = file.Addr
	}
	if file.LogLevel != "" {
		out.LogLevel = file.LogLevel
	}
	if len(file.AllowedOrigins) > 0 {
		out.AllowedOrigins = file.AllowedOrigins
	}
	if file.SubscriberBuffer > 0 {
		out.SubscriberBuffer = file.SubscriberBuffer
	}
	if file.MaxBodyBytes > 0 {
		out.MaxBodyBytes = file.MaxBodyBytes
	}
	return out
}

func applyLevel(s string) {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func run(addr, cfgPath, logLevel string) error {
	cfg := config.Config{Addr: addr, LogLevel: logLevel}
	if cfgPath != "" {
		fileCfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = merge(cfg, fileCfg)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	applyLevel(cfg.LogLevel)

	h := hub.NewWithConfig(hub.Config{Buffer: cfg.SubscriberBuffer})
	h.SetLogger(logger)
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetAllowedOrigins(cfg.AllowedOrigins)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(h)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfgPath != "" {
		// Live reload currently adjusts the log level only.
		err := config.Watch(ctx, cfgPath, logger, func(next config.Config) {
			applyLevel(next.LogLevel)
		})
		if err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		}
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("eventhubd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	var result *multierror.Error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if err := h.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("hub close: %w", err))
	}
	return result.ErrorOrNil()
}
