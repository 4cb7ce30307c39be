// Package main is the CLI entry point for the scrollkeeper demo. It binds a
// simulated scrollable element, drives bursts of scroll events through the
// debounced persistence path, and exposes operational metrics over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/scrollkeeper/scrollkeeper"
	"github.com/scrollkeeper/scrollkeeper/internal/config"
	"github.com/scrollkeeper/scrollkeeper/internal/server"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.Command{
		Name:    "scrollkeeper-demo",
		Usage:   "Simulate a scrollable element and persist its offset across runs",
		Version: version,
		Commands: []*cli.Command{
			runCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the demo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "",
				Sources: cli.EnvVars("SCROLLKEEPER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "identifier",
				Usage:   "Binding identifier (storage key suffix)",
				Sources: cli.EnvVars("SCROLLKEEPER_IDENTIFIER"),
			},
			&cli.StringFlag{
				Name:    "persist",
				Usage:   "Storage backend (disabled, redis, local)",
				Sources: cli.EnvVars("SCROLLKEEPER_PERSIST"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error, fatal, panic)",
				Value:   "info",
				Sources: cli.EnvVars("SCROLLKEEPER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "listen-address",
				Usage:   "HTTP listen address (e.g. :8080)",
				Sources: cli.EnvVars("SCROLLKEEPER_LISTEN_ADDRESS"),
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	// --- Configure logging ---
	logger := logrus.New()
	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log := logger.WithField("app", "scrollkeeper-demo")

	// --- Load configuration ---
	var cfg *config.Config
	configPath := cmd.String("config")
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	} else {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}

	// --- CLI overrides ---
	if v := cmd.String("identifier"); v != "" {
		cfg.Restore.Identifier = v
	}
	if v := cmd.String("persist"); v != "" {
		cfg.Restore.Persist = v
	}
	if v := cmd.String("listen-address"); v != "" {
		cfg.Server.ListenAddress = v
	}

	log.WithFields(logrus.Fields{
		"version": version,
		"commit":  commit,
	}).Info("starting scrollkeeper-demo")

	// --- OS signal handling for graceful shutdown ---
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Metrics server ---
	registry := prometheus.NewRegistry()
	srv := server.NewServer(cfg, registry, log)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(shutdownCtx)
	}()

	// --- Binding ---
	binding, err := scrollkeeper.Bind(cfg.Restore.Identifier, scrollkeeper.Options{
		Persist:      scrollkeeper.PersistMode(cfg.Restore.Persist),
		RedisURL:     cfg.Restore.RedisURL,
		LocalPath:    cfg.Restore.LocalPath,
		DebounceTime: cfg.Restore.DebounceTime(),
		Logger:       log,
		Metrics:      registry,
	})
	if err != nil {
		return fmt.Errorf("creating binding: %w", err)
	}
	defer func() {
		if err := binding.Close(); err != nil {
			log.WithError(err).Warn("closing binding")
		}
	}()

	el := newSimElement()
	binding.Attach(ctx, el)
	defer binding.Detach()
	srv.SetReady(true)

	off := el.ScrollOffset()
	log.WithFields(logrus.Fields{
		"top":  off.Top,
		"left": off.Left,
	}).Info("element attached; offset restored from previous run if one was stored")

	return driveScrollTraffic(ctx, cfg, binding, el, log)
}

// driveScrollTraffic alternates bursts of scroll events with quiet periods
// until ctx is cancelled. Bursts are paced with a rate limiter so the
// debouncer sees a realistic high-frequency event stream.
func driveScrollTraffic(ctx context.Context, cfg *config.Config, binding *scrollkeeper.Binding, el *simElement, log *logrus.Entry) error {
	limiter := rate.NewLimiter(rate.Limit(cfg.Demo.EventsPerSecond), 1)
	burst := time.Duration(cfg.Demo.BurstSeconds) * time.Second
	quiet := time.Duration(cfg.Demo.QuietSeconds) * time.Second

	for i := 0; ; i++ {
		deadline := time.Now().Add(burst)
		events := 0
		for time.Now().Before(deadline) {
			if err := limiter.Wait(ctx); err != nil {
				return nil // context cancelled
			}
			el.scrollBy(0, 12)
			events++
		}

		off := el.ScrollOffset()
		log.WithFields(logrus.Fields{
			"events": events,
			"top":    off.Top,
		}).Info("burst complete, waiting out quiet period")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(quiet):
		}

		// Every few bursts jump back to the top via the manual override so
		// the demo also exercises the SetScroll path.
		if i%4 == 3 {
			binding.SetScroll(0, 0)
			log.Info("manual override: scrolled back to top")
		}
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("scrollkeeper-demo %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
