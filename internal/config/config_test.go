package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir mirrors t.Chdir (added in Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "SENTINEL_DOTENV_CHECK=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)

	os.Unsetenv("SENTINEL_DOTENV_CHECK")
	defer os.Unsetenv("SENTINEL_DOTENV_CHECK")

	if !LoadDotEnv() {
		t.Fatal("expected LoadDotEnv to find the .env file")
	}
	if got := os.Getenv("SENTINEL_DOTENV_CHECK"); got != "from-file" {
		t.Errorf("expected .env variable applied, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if LoadDotEnv() {
		t.Error("expected LoadDotEnv to report no .env file")
	}
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("SENTINEL_SCAN_INTERVAL", "5m")
	t.Setenv("SENTINEL_SWEEP_INTERVAL", "bogus")

	cfg := Load()
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("expected 5m scan interval, got %v", cfg.ScanInterval)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Errorf("expected invalid sweep interval to fall back to 10m, got %v", cfg.SweepInterval)
	}
}

func TestLoadSourcesDefaults(t *testing.T) {
	sources, err := LoadSources("")
	if err != nil {
		t.Fatalf("LoadSources failed: %v", err)
	}
	if len(sources) == 0 {
		t.Fatal("expected built-in sources")
	}
	for _, src := range sources {
		if src.Name == "" || src.URL == "" {
			t.Errorf("incomplete built-in source: %+v", src)
		}
	}
}
