package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FallbackBaseURL is probed when no base URL is configured anywhere. Runs
// against the fallback are treated leniently by the gate: thresholds tuned
// for a production deployment are meaningless against the shared demo space.
const FallbackBaseURL = "https://antonypamo-apisavant2.hf.space"

// Default values applied when fields are absent from the config file.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultBenchN       = 50
	DefaultArtifactsDir = "artifacts/lab"
	DefaultEvalsetPath  = "lab/data/evalset.jsonl"
	DefaultDashboardDir = "dashboard_site"
)

// Config is the top-level lab configuration.
// Fields map 1:1 to savantlab.example.yaml.
type Config struct {
	Lab        Lab        `yaml:"lab"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Lab holds target and run-shape settings.
type Lab struct {
	// BaseURL is the root URL of the Savant deployment under test.
	// Empty means: use SAVANT_BASE_URL, or fall back to the public demo space.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds every individual request. A request that exceeds it
	// counts as a failure, never as a hang.
	Timeout time.Duration `yaml:"timeout"`

	// BenchN is the number of benchmark requests issued per run.
	BenchN int `yaml:"bench_n"`

	// BenchConcurrency is the number of benchmark workers. 1 (the default)
	// issues requests sequentially.
	BenchConcurrency int `yaml:"bench_concurrency"`

	// BenchRate caps benchmark issuance in requests per second.
	// 0 means unpaced.
	BenchRate float64 `yaml:"bench_rate"`

	// ArtifactsDir is where run artifacts (smoke.json, gate.json, ...) land.
	ArtifactsDir string `yaml:"artifacts_dir"`

	// MetricsPath, when set, names a Prometheus text-exposition endpoint on
	// the target (e.g. "/metrics") checked during the smoke phase.
	MetricsPath string `yaml:"metrics_path"`

	// EvalsetPath is the JSONL evalset consumed by the baseline compare.
	EvalsetPath string `yaml:"evalset"`

	// DashboardDir is the output directory for the rendered dashboard.
	DashboardDir string `yaml:"dashboard_dir"`

	// Auth configures how the lab authenticates to the target.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig specifies the authentication mode for the target deployment.
type AuthConfig struct {
	// Mode is one of: bearer | apikey | basic | none.
	Mode string `yaml:"mode"`

	// Bearer token — used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// API key fields — used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Basic auth fields — used when Mode == "basic".
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Token returns the bearer token resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Key returns the API key value resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// Thresholds are the release-gate bounds. Latency bounds are in seconds,
// rate bounds are fractions in [0, 1]. A run is immutable once loaded —
// callers receive the value, not a shared pointer.
type Thresholds struct {
	P50Max         float64 `yaml:"p50_max" json:"p50_max"`
	P95Max         float64 `yaml:"p95_max" json:"p95_max"`
	P99Max         float64 `yaml:"p99_max" json:"p99_max"`
	ErrorRateMax   float64 `yaml:"error_rate_max" json:"error_rate_max"`
	SmokeOKRateMin float64 `yaml:"smoke_ok_rate_min" json:"smoke_ok_rate_min"`
}

// Load reads and parses the YAML config file at path, fills defaults,
// validates, and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values, with
// environment overrides applied. It is what the gate runs with when no
// config file is present.
func Default() *Config {
	cfg := &Config{
		Lab: Lab{
			Timeout:          DefaultTimeout,
			BenchN:           DefaultBenchN,
			BenchConcurrency: 1,
			ArtifactsDir:     DefaultArtifactsDir,
			EvalsetPath:      DefaultEvalsetPath,
			DashboardDir:     DefaultDashboardDir,
		},
		Thresholds: Thresholds{
			P50Max:         1.0,
			P95Max:         2.5,
			P99Max:         4.0,
			ErrorRateMax:   0.02,
			SmokeOKRateMin: 0.75,
		},
	}
	// Ignoring the error here would hide a malformed override, but Default
	// is also used as the yaml target in Load, so env errors surface there.
	_ = applyEnv(cfg)
	return cfg
}

// ResolveBaseURL returns the effective base URL (trailing slash stripped)
// and whether the public fallback endpoint had to be used.
func (c *Config) ResolveBaseURL() (url string, fallback bool) {
	u := strings.TrimSpace(c.Lab.BaseURL)
	if u == "" {
		return FallbackBaseURL, true
	}
	return strings.TrimRight(u, "/"), false
}

// applyEnv overrides file-level settings from the environment.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SAVANT_BASE_URL"); strings.TrimSpace(v) != "" {
		cfg.Lab.BaseURL = v
	}
	if v := os.Getenv("SAVANT_TIMEOUT"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SAVANT_TIMEOUT: %w", err)
		}
		cfg.Lab.Timeout = time.Duration(secs * float64(time.Second))
	}
	if v := os.Getenv("SAVANT_BENCH_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SAVANT_BENCH_N: %w", err)
		}
		cfg.Lab.BenchN = n
	}
	if v := os.Getenv("ARTIFACTS_DIR"); v != "" {
		cfg.Lab.ArtifactsDir = v
	}
	if v := os.Getenv("SAVANT_EVALSET"); v != "" {
		cfg.Lab.EvalsetPath = v
	}
	if v := os.Getenv("DASHBOARD_OUT"); v != "" {
		cfg.Lab.DashboardDir = v
	}
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Lab.Timeout <= 0 {
		return fmt.Errorf("lab.timeout must be positive")
	}
	if cfg.Lab.BenchN <= 0 {
		return fmt.Errorf("lab.bench_n must be positive")
	}
	if cfg.Lab.BenchConcurrency <= 0 {
		return fmt.Errorf("lab.bench_concurrency must be positive")
	}
	if cfg.Lab.BenchRate < 0 {
		return fmt.Errorf("lab.bench_rate must not be negative")
	}
	if cfg.Lab.ArtifactsDir == "" {
		return fmt.Errorf("lab.artifacts_dir is required")
	}
	switch cfg.Lab.Auth.Mode {
	case "bearer", "apikey", "basic", "none", "":
	default:
		return fmt.Errorf("lab.auth: unknown mode %q", cfg.Lab.Auth.Mode)
	}
	if cfg.Lab.MetricsPath != "" && !strings.HasPrefix(cfg.Lab.MetricsPath, "/") {
		return fmt.Errorf("lab.metrics_path must start with /")
	}

	th := cfg.Thresholds
	for _, b := range []struct {
		name string
		v    float64
	}{
		{"p50_max", th.P50Max},
		{"p95_max", th.P95Max},
		{"p99_max", th.P99Max},
	} {
		if b.v <= 0 {
			return fmt.Errorf("thresholds.%s must be positive", b.name)
		}
	}
	if th.ErrorRateMax < 0 || th.ErrorRateMax > 1 {
		return fmt.Errorf("thresholds.error_rate_max must be in [0,1]")
	}
	if th.SmokeOKRateMin < 0 || th.SmokeOKRateMin > 1 {
		return fmt.Errorf("thresholds.smoke_ok_rate_min must be in [0,1]")
	}
	return nil
}
