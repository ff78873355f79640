package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sleuth.toml")
	content := "[anomaly]\nzscore-threshold = 3.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Anomaly.ZScoreThreshold != 3.0 {
		t.Errorf("zscore = %f", cfg.Anomaly.ZScoreThreshold)
	}
	// незаданные ключи остаются дефолтными
	if cfg.Limits.MaxFileSizeMB != 50 {
		t.Errorf("max size = %d", cfg.Limits.MaxFileSizeMB)
	}
	if cfg.Anomaly.MinYear != 1900 {
		t.Errorf("min year = %d", cfg.Anomaly.MinYear)
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sleuth.toml")
	if err := os.WriteFile(path, []byte("not [valid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("broken TOML must fail")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(filepath.Join(root, "sleuth.toml")); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if path != filepath.Join(root, "sleuth.toml") {
		t.Errorf("path = %q", path)
	}
	if cfg.Anomaly.ZScoreThreshold != 4.0 {
		t.Errorf("template must carry the defaults")
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q", path)
	}
	if cfg.Profile.EnumMaxUnique != 20 {
		t.Error("defaults expected")
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sleuth.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("second write must fail")
	}
}
