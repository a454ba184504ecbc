package artifacts

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "lab") // must be created on demand

	in := map[string]any{"p95_s": 0.42, "pass": true}
	if err := WriteJSON(dir, Gate, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !Exists(dir, Gate) {
		t.Fatal("Exists: gate.json should be present")
	}

	var out map[string]any
	if err := ReadJSON(dir, Gate, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out["p95_s"] != 0.42 {
		t.Errorf("p95_s: got %v", out["p95_s"])
	}
	if out["pass"] != true {
		t.Errorf("pass: got %v", out["pass"])
	}
}

func TestReadJSON_Missing(t *testing.T) {
	var out map[string]any
	err := ReadJSON(t.TempDir(), Benchmark, &out)
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should satisfy fs.ErrNotExist: %v", err)
	}
}

func TestExists_Missing(t *testing.T) {
	if Exists(t.TempDir(), Smoke) {
		t.Error("Exists: got true for absent file")
	}
}
