package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuning_MissingFileUsesDefaults(t *testing.T) {
	tn, err := LoadTuning(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadTuning() error: %v", err)
	}
	if tn != DefaultTuning() {
		t.Errorf("tuning = %+v, want defaults", tn)
	}
}

func TestLoadTuning_OverridesSelectedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	body := "time_limit = 30.0\nreaction_window = 1.2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tn, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error: %v", err)
	}
	if tn.TimeLimit != 30.0 {
		t.Errorf("TimeLimit = %v, want 30", tn.TimeLimit)
	}
	if tn.ReactionWindow != 1.2 {
		t.Errorf("ReactionWindow = %v, want 1.2", tn.ReactionWindow)
	}
	// Untouched keys keep their defaults.
	if tn.SurvivalStart != 5.0 {
		t.Errorf("SurvivalStart = %v, want 5", tn.SurvivalStart)
	}
}

func TestLoadTuning_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	if err := os.WriteFile(path, []byte("time_limit = = nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTuning(path); err == nil {
		t.Error("LoadTuning() should reject a malformed file")
	}
}
