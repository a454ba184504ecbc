package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savantlab/savantlab/internal/config"
	"github.com/savantlab/savantlab/internal/dashboard"
)

const defaultConfigPath = "savantlab.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	artifactsDir := flag.String("artifacts", "", "artifacts directory (overrides config)")
	outDir := flag.String("out", "", "dashboard output directory (overrides config)")
	watch := flag.Bool("watch", false, "re-render whenever artifacts change")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *artifactsDir != "" {
		cfg.Lab.ArtifactsDir = *artifactsDir
	}
	if *outDir != "" {
		cfg.Lab.DashboardDir = *outDir
	}

	slog.Info("savant-dashboard starting",
		"artifacts", cfg.Lab.ArtifactsDir,
		"out", cfg.Lab.DashboardDir,
		"watch", *watch,
	)

	if err := render(cfg); err != nil {
		slog.Error("render failed", "err", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = dashboard.Watch(ctx, cfg.Lab.ArtifactsDir, func() {
		// Watch-mode re-renders refresh the page without appending history:
		// one run, one history row.
		if err := rerender(cfg); err != nil {
			slog.Error("re-render failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("watcher stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("savant-dashboard shutting down")
}

// render appends the run to history and writes the page.
func render(cfg *config.Config) error {
	a, err := dashboard.LoadArtifacts(cfg.Lab.ArtifactsDir)
	if err != nil {
		return err
	}
	entry := dashboard.NewEntry(a, time.Now())
	history, err := dashboard.AppendHistory(cfg.Lab.DashboardDir, entry)
	if err != nil {
		return err
	}
	if err := dashboard.Render(cfg.Lab.DashboardDir, a, history); err != nil {
		return err
	}
	slog.Info("dashboard rendered",
		"out", cfg.Lab.DashboardDir,
		"history_len", len(history),
	)
	return nil
}

// rerender refreshes index.html from the current artifacts and the history
// already on disk.
func rerender(cfg *config.Config) error {
	a, err := dashboard.LoadArtifacts(cfg.Lab.ArtifactsDir)
	if err != nil {
		return err
	}
	history, err := dashboard.ReadHistory(cfg.Lab.DashboardDir)
	if err != nil {
		return err
	}
	return dashboard.Render(cfg.Lab.DashboardDir, a, history)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no config file found — using built-in defaults", "path", path)
		return config.Default(), nil
	}
	return nil, err
}
