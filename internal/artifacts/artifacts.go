package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Canonical artifact file names.
const (
	Smoke     = "smoke.json"
	Hardening = "hardening.json"
	Benchmark = "benchmark.json"
	Gate      = "gate.json"
	Metrics   = "metrics.json"
	Compare   = "baseline_compare.json"
)

// WriteJSON marshals v (indented) into dir/name, creating dir if needed.
func WriteJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifacts: create dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifacts: marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("artifacts: write %s: %w", name, err)
	}
	return nil
}

// ReadJSON unmarshals dir/name into out. A missing file surfaces as an
// error satisfying errors.Is(err, fs.ErrNotExist).
func ReadJSON(dir, name string, out any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("artifacts: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("artifacts: parse %s: %w", name, err)
	}
	return nil
}

// Exists reports whether dir/name is present.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
