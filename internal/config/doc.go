// Package config loads and validates the lab configuration: target endpoint
// settings, benchmark shape, and the release-gate thresholds.
//
// Configuration comes from a single YAML file (see savantlab.example.yaml)
// with defaults filled in for absent fields. A handful of environment
// variables override the file so CI jobs can retarget a run without editing
// it: SAVANT_BASE_URL, SAVANT_TIMEOUT, SAVANT_BENCH_N, ARTIFACTS_DIR,
// SAVANT_EVALSET and DASHBOARD_OUT.
//
// Secrets (bearer tokens, API keys, basic-auth passwords) are never stored in
// the file — the file names the environment variable that holds the value.
package config
