package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/savantlab/savantlab/internal/artifacts"
	"github.com/savantlab/savantlab/internal/config"
	"github.com/savantlab/savantlab/internal/probe"
	"github.com/savantlab/savantlab/internal/rerank"
)

const defaultConfigPath = "savantlab.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	evalsetPath := flag.String("evalset", "", "evalset JSONL path (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *evalsetPath != "" {
		cfg.Lab.EvalsetPath = *evalsetPath
	}

	baseURL, fallbackUsed := cfg.ResolveBaseURL()
	slog.Info("savant-compare starting",
		"base_url", baseURL,
		"fallback_used", fallbackUsed,
		"evalset", cfg.Lab.EvalsetPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	records, err := rerank.LoadEvalset(cfg.Lab.EvalsetPath)
	if err != nil {
		slog.Error("failed to load evalset", "err", err)
		os.Exit(1)
	}
	slog.Info("evalset loaded", "records", len(records))

	client := rerank.NewClient(probe.NewClient(cfg.Lab.Auth, cfg.Lab.Timeout), baseURL)
	report, err := rerank.Compare(ctx, client, records, rerank.Baselines(), cfg.Lab.EvalsetPath)
	if err != nil {
		slog.Error("baseline compare failed", "err", err)
		os.Exit(1)
	}

	if err := artifacts.WriteJSON(cfg.Lab.ArtifactsDir, artifacts.Compare, report); err != nil {
		slog.Error("failed to write artifact", "err", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
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
