package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/api"
	"github.com/newthinker/pricedash/internal/api/job"
	"github.com/newthinker/pricedash/internal/backend"
	"github.com/newthinker/pricedash/internal/config"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/logger"
	"github.com/newthinker/pricedash/internal/metrics"
	"github.com/newthinker/pricedash/internal/notifier"
	"github.com/newthinker/pricedash/internal/notifier/telegram"
	"github.com/newthinker/pricedash/internal/notifier/webhook"
	"github.com/newthinker/pricedash/internal/storage/archive"
)

var templatesDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "load page templates from this directory instead of the embedded ones")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	boot := logger.Must(debug)
	cfg, err := loadConfig(boot)
	if err != nil {
		return err
	}

	log, err := logger.ForMode(cfg.Server.Mode, debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting pricedash server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := metrics.NewRegistry()
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		backend.WithLogger(log),
		backend.WithMetrics(reg),
	)

	opts := []dashboard.Option{
		dashboard.WithLogger(log),
		dashboard.WithMetrics(reg),
		dashboard.WithIntervals(cfg.Backend.PollInterval, cfg.Backend.TrainingPollInterval),
	}

	var snapshots *archive.SnapshotArchive
	if cfg.Archive.Enabled {
		snapshots, err = openArchive(cfg.Archive, log)
		if err != nil {
			return err
		}
		opts = append(opts, dashboard.WithArchiver(snapshots))
	}

	svc := dashboard.New(client, opts...)
	if snapshots != nil {
		restore(ctx, svc, snapshots, log)
	}

	jobs := job.NewStore(100, time.Hour)
	notifiers, err := buildNotifiers(cfg.Notifiers)
	if err != nil {
		return err
	}
	if notifiers.Len() > 0 {
		notifiers.Watch(jobs, cfg.Backend.Timeout, log)
		log.Info("run notifications enabled", zap.Int("notifiers", notifiers.Len()))
	}
	updates, unsubscribe := svc.Subscribe()
	defer unsubscribe()
	go jobs.Track(ctx, updates, job.DefaultStartGrace)

	go func() {
		if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("dashboard service error", zap.Error(err))
		}
	}()

	server, err := api.NewServer(api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		APIKey:         cfg.Server.APIKey,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		StreamEnabled:  cfg.Stream.Enabled,
		MaxClients:     cfg.Stream.MaxClients,
		TemplatesDir:   templatesDir,
	}, api.Dependencies{
		Dashboard: svc,
		Trainer:   client,
		Layouts:   layout.DefaultRegistry(),
		Jobs:      jobs,
		Metrics:   reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down pricedash server")
	svc.Stop()
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

func openArchive(cfg config.ArchiveConfig, log *zap.Logger) (*archive.SnapshotArchive, error) {
	store, err := archive.New(archive.Config{
		Type: cfg.Type,
		Path: cfg.Path,
		S3: archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot archive: %w", err)
	}

	log.Info("snapshot archive enabled",
		zap.String("type", cfg.Type),
		zap.Int("retain", cfg.Retain),
	)
	return archive.NewSnapshotArchive(store,
		archive.WithLogger(log),
		archive.WithRetain(cfg.Retain),
	), nil
}

func buildNotifiers(cfgs map[string]config.NotifierConfig) (*notifier.Registry, error) {
	registry := notifier.NewRegistry()
	for name, nc := range cfgs {
		if !nc.Enabled {
			continue
		}

		var n notifier.Notifier
		params := map[string]any{}
		switch name {
		case "webhook":
			n = webhook.New(nc.URL, nc.Headers)
			params["url"] = nc.URL
		case "telegram":
			n = telegram.New(nc.BotToken, nc.ChatID)
			params["api_url"] = nc.APIURL
		default:
			return nil, fmt.Errorf("unknown notifier %q", name)
		}

		if err := n.Init(notifier.Config{Type: name, Params: params}); err != nil {
			return nil, fmt.Errorf("initializing notifier %s: %w", name, err)
		}
		if err := registry.Register(n); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// restore seeds the service with the newest archived snapshot so the
// dashboard has something to show before the first backend poll.
func restore(ctx context.Context, svc *dashboard.Service, snapshots *archive.SnapshotArchive, log *zap.Logger) {
	snap, err := snapshots.Latest(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNoSnapshot) {
			log.Warn("failed to restore archived snapshot", zap.Error(err))
		}
		return
	}
	if svc.Restore(snap) {
		log.Info("restored archived snapshot",
			zap.Uint64("sequence", snap.Sequence),
			zap.Time("generated_at", snap.GeneratedAt),
		)
	}
}
