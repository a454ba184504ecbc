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
	"time"

	"github.com/savantlab/savantlab/internal/artifacts"
	"github.com/savantlab/savantlab/internal/bench"
	"github.com/savantlab/savantlab/internal/config"
	"github.com/savantlab/savantlab/internal/gate"
	"github.com/savantlab/savantlab/internal/probe"
)

const defaultConfigPath = "savantlab.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("savant-gate starting", "config", *configPath)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	baseURL, fallbackUsed := cfg.ResolveBaseURL()
	slog.Info("config loaded",
		"base_url", baseURL,
		"fallback_used", fallbackUsed,
		"bench_n", cfg.Lab.BenchN,
		"timeout", cfg.Lab.Timeout,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	decision, err := run(ctx, cfg, baseURL, fallbackUsed)
	if err != nil {
		slog.Error("gate run failed", "err", err)
		os.Exit(1)
	}

	// Operator visibility: the decision goes to stdout as one JSON document.
	out, _ := json.MarshalIndent(decision, "", "  ")
	fmt.Println(string(out))

	if decision.Pass {
		return
	}
	for _, v := range decision.Violations {
		slog.Warn("threshold violation", "violation", v)
	}
	if fallbackUsed {
		slog.Warn("gate failed against the fallback endpoint — not blocking the pipeline",
			"fallback", config.FallbackBaseURL)
		return
	}
	os.Exit(1)
}

// loadConfig loads the thresholds/lab file. An explicitly passed path must
// exist; the default path falling back to built-in defaults keeps the CLI
// usable with zero flags.
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

// run executes probe → bench → evaluate → decide and writes all artifacts.
func run(ctx context.Context, cfg *config.Config, baseURL string, fallbackUsed bool) (*gate.Decision, error) {
	client := probe.NewClient(cfg.Lab.Auth, cfg.Lab.Timeout)
	prober := probe.New(client, baseURL)
	dir := cfg.Lab.ArtifactsDir

	smoke := prober.Smoke(ctx)
	slog.Info("smoke suite done", "ok", smoke.OK, "total", smoke.Total)
	if err := artifacts.WriteJSON(dir, artifacts.Smoke, smoke); err != nil {
		return nil, err
	}

	hardening := prober.Hardening(ctx)
	slog.Info("hardening suite done", "errors", hardening.Errors, "n", hardening.N)
	if err := artifacts.WriteJSON(dir, artifacts.Hardening, hardening); err != nil {
		return nil, err
	}

	if cfg.Lab.MetricsPath != "" {
		metrics := prober.Metrics(ctx, cfg.Lab.MetricsPath)
		slog.Info("metrics check done", "ok", metrics.OK, "families", metrics.Families)
		if err := artifacts.WriteJSON(dir, artifacts.Metrics, metrics); err != nil {
			return nil, err
		}
	}

	sampler := bench.NewSampler(client, baseURL+"/evaluate",
		bench.WithConcurrency(cfg.Lab.BenchConcurrency),
		bench.WithRate(cfg.Lab.BenchRate),
	)
	sample, err := sampler.Run(ctx, cfg.Lab.BenchN)
	if err != nil {
		return nil, err
	}
	report := bench.Summarize(sample)
	slog.Info("benchmark done",
		"n", report.N,
		"errors", report.Errors,
		"p95_s", report.P95S,
	)
	if err := artifacts.WriteJSON(dir, artifacts.Benchmark, report); err != nil {
		return nil, err
	}

	result, err := gate.Evaluate(sample, cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	decision := gate.Decide(result, report, smoke, cfg.Thresholds, baseURL, fallbackUsed, time.Now())
	if err := artifacts.WriteJSON(dir, artifacts.Gate, decision); err != nil {
		return nil, err
	}
	return &decision, nil
}
