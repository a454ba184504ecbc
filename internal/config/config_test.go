package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// loadFromString writes yaml to a temp file and loads it, failing the test
// on error.
func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, yaml)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func loadStringErr(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "savantlab.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

// clearLabEnv isolates tests from ambient CI variables.
func clearLabEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SAVANT_BASE_URL", "SAVANT_TIMEOUT", "SAVANT_BENCH_N",
		"ARTIFACTS_DIR", "SAVANT_EVALSET", "DASHBOARD_OUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Valid(t *testing.T) {
	clearLabEnv(t)
	yaml := `
lab:
  base_url: "https://savant.example/"
  timeout: 10s
  bench_n: 25
  bench_concurrency: 4
  bench_rate: 5
  artifacts_dir: out/lab
  metrics_path: /metrics
thresholds:
  p50_max: 0.4
  p95_max: 0.8
  p99_max: 1.5
  error_rate_max: 0.05
  smoke_ok_rate_min: 1.0
`
	cfg := loadFromString(t, yaml)

	if cfg.Lab.Timeout != 10*time.Second {
		t.Errorf("timeout: got %v", cfg.Lab.Timeout)
	}
	if cfg.Lab.BenchN != 25 {
		t.Errorf("bench_n: got %d", cfg.Lab.BenchN)
	}
	if cfg.Lab.BenchConcurrency != 4 {
		t.Errorf("bench_concurrency: got %d", cfg.Lab.BenchConcurrency)
	}
	if cfg.Thresholds.P95Max != 0.8 {
		t.Errorf("p95_max: got %v", cfg.Thresholds.P95Max)
	}
	if cfg.Thresholds.SmokeOKRateMin != 1.0 {
		t.Errorf("smoke_ok_rate_min: got %v", cfg.Thresholds.SmokeOKRateMin)
	}

	url, fallback := cfg.ResolveBaseURL()
	if url != "https://savant.example" {
		t.Errorf("base url: got %q — trailing slash must be stripped", url)
	}
	if fallback {
		t.Error("fallback: got true with an explicit base_url")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearLabEnv(t)
	cfg := loadFromString(t, "lab: {}\n")

	if cfg.Lab.Timeout != DefaultTimeout {
		t.Errorf("default timeout: got %v, want %v", cfg.Lab.Timeout, DefaultTimeout)
	}
	if cfg.Lab.BenchN != DefaultBenchN {
		t.Errorf("default bench_n: got %d, want %d", cfg.Lab.BenchN, DefaultBenchN)
	}
	if cfg.Lab.ArtifactsDir != DefaultArtifactsDir {
		t.Errorf("default artifacts_dir: got %q", cfg.Lab.ArtifactsDir)
	}
	if cfg.Thresholds.ErrorRateMax != 0.02 {
		t.Errorf("default error_rate_max: got %v", cfg.Thresholds.ErrorRateMax)
	}
}

func TestResolveBaseURL_Fallback(t *testing.T) {
	clearLabEnv(t)
	cfg := Default()

	url, fallback := cfg.ResolveBaseURL()
	if url != FallbackBaseURL {
		t.Errorf("url: got %q, want fallback", url)
	}
	if !fallback {
		t.Error("fallback: got false, want true")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearLabEnv(t)
	t.Setenv("SAVANT_BASE_URL", "https://override.example")
	t.Setenv("SAVANT_TIMEOUT", "2.5")
	t.Setenv("SAVANT_BENCH_N", "7")
	t.Setenv("ARTIFACTS_DIR", "elsewhere")

	cfg := loadFromString(t, `
lab:
  base_url: "https://file.example"
  bench_n: 99
`)

	url, fallback := cfg.ResolveBaseURL()
	if url != "https://override.example" || fallback {
		t.Errorf("base url: got %q (fallback=%v)", url, fallback)
	}
	if cfg.Lab.Timeout != 2500*time.Millisecond {
		t.Errorf("timeout: got %v, want 2.5s", cfg.Lab.Timeout)
	}
	if cfg.Lab.BenchN != 7 {
		t.Errorf("bench_n: got %d, want 7", cfg.Lab.BenchN)
	}
	if cfg.Lab.ArtifactsDir != "elsewhere" {
		t.Errorf("artifacts_dir: got %q", cfg.Lab.ArtifactsDir)
	}
}

func TestEnvOverride_BadNumber(t *testing.T) {
	clearLabEnv(t)
	t.Setenv("SAVANT_BENCH_N", "not-a-number")

	if _, err := loadStringErr(t, "lab: {}\n"); err == nil {
		t.Fatal("expected error for malformed SAVANT_BENCH_N, got nil")
	}
}

func TestValidate_Errors(t *testing.T) {
	clearLabEnv(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"negative bench_n", "lab:\n  bench_n: -1\n"},
		{"bad auth mode", "lab:\n  auth:\n    mode: kerberos\n"},
		{"relative metrics path", "lab:\n  metrics_path: metrics\n"},
		{"negative p95", "thresholds:\n  p95_max: -0.5\n"},
		{"error rate above 1", "thresholds:\n  error_rate_max: 1.5\n"},
		{"smoke rate above 1", "thresholds:\n  smoke_ok_rate_min: 2\n"},
		{"negative rate", "lab:\n  bench_rate: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadStringErr(t, tt.yaml); err == nil {
				t.Errorf("expected validation error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if _, err := loadStringErr(t, "lab: [not: a: mapping\n"); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestAuthSecrets_ResolvedFromEnv(t *testing.T) {
	t.Setenv("TOK", "abc")
	t.Setenv("KEY", "def")
	t.Setenv("PW", "ghi")

	a := AuthConfig{TokenEnv: "TOK", KeyEnv: "KEY", PasswordEnv: "PW"}
	if a.Token() != "abc" || a.Key() != "def" || a.Password() != "ghi" {
		t.Errorf("secrets: got %q/%q/%q", a.Token(), a.Key(), a.Password())
	}

	var empty AuthConfig
	if empty.Token() != "" || empty.Key() != "" || empty.Password() != "" {
		t.Error("unset env names must resolve to empty strings")
	}
}
