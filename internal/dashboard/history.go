package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/savantlab/savantlab/internal/artifacts"
	"github.com/savantlab/savantlab/internal/bench"
	"github.com/savantlab/savantlab/internal/gate"
	"github.com/savantlab/savantlab/internal/probe"
	"github.com/savantlab/savantlab/internal/rerank"
)

// historyFile is the append-only run log inside the dashboard directory.
const historyFile = "history.json"

// maxHistory caps how many runs the history keeps.
const maxHistory = 200

// Entry is one run's row in history.json.
type Entry struct {
	Stamp     string                          `json:"stamp"`
	RunID     string                          `json:"run_id"`
	SHA       string                          `json:"sha"`
	BaseURL   string                          `json:"base_url"`
	P95S      float64                         `json:"p95_s"`
	P99S      float64                         `json:"p99_s"`
	ErrorRate float64                         `json:"error_rate"`
	Pass      bool                            `json:"pass"`
	Baselines map[string]rerank.RankerSummary `json:"baseline_compare,omitempty"`
}

// Artifacts is everything one run left behind, loaded leniently: absent
// files leave zero values so a partial run still renders.
type Artifacts struct {
	Decision  gate.Decision
	Benchmark bench.Report
	Smoke     probe.SmokeReport
	Hardening probe.HardeningReport
	Compare   rerank.Report
}

// LoadArtifacts reads whatever artifacts exist in dir. Only the gate
// decision is required — without it there is no run to record.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var a Artifacts
	if err := artifacts.ReadJSON(dir, artifacts.Gate, &a.Decision); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	// The rest is best-effort.
	_ = artifacts.ReadJSON(dir, artifacts.Benchmark, &a.Benchmark)
	_ = artifacts.ReadJSON(dir, artifacts.Smoke, &a.Smoke)
	_ = artifacts.ReadJSON(dir, artifacts.Hardening, &a.Hardening)
	_ = artifacts.ReadJSON(dir, artifacts.Compare, &a.Compare)
	return &a, nil
}

// NewEntry derives a history entry from one run's artifacts. Run metadata
// comes from the CI environment (GITHUB_RUN_ID / GITHUB_SHA) when present;
// local runs get a generated short id. now is explicit for tests.
func NewEntry(a *Artifacts, now time.Time) Entry {
	runID := os.Getenv("GITHUB_RUN_ID")
	if runID == "" {
		runID = "local-" + uuid.NewString()[:8]
	}
	sha := os.Getenv("GITHUB_SHA")
	if sha == "" {
		sha = "local"
	} else if len(sha) > 7 {
		sha = sha[:7]
	}

	return Entry{
		Stamp:     now.UTC().Format(time.RFC3339),
		RunID:     runID,
		SHA:       sha,
		BaseURL:   a.Decision.BaseURL,
		P95S:      a.Benchmark.P95S,
		P99S:      a.Benchmark.P99S,
		ErrorRate: a.Benchmark.ErrorRate,
		Pass:      a.Decision.Pass,
		Baselines: a.Compare.Metrics,
	}
}

// ReadHistory returns the history currently on disk, oldest first. A
// missing or empty file yields an empty history.
func ReadHistory(dir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, historyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dashboard: read history: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var history []Entry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("dashboard: parse history: %w", err)
	}
	return history, nil
}

// AppendHistory appends entry to dir/history.json, truncating to the newest
// maxHistory entries, and returns the updated history (oldest first). A
// missing or empty history file starts a fresh log.
func AppendHistory(dir string, entry Entry) ([]Entry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dashboard: create dir: %w", err)
	}
	history, err := ReadHistory(dir)
	if err != nil {
		return nil, err
	}

	history = append(history, entry)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	out, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal history: %w", err)
	}
	out = append(out, '\n')
	if err := os.WriteFile(filepath.Join(dir, historyFile), out, 0o644); err != nil {
		return nil, fmt.Errorf("dashboard: write history: %w", err)
	}
	return history, nil
}
