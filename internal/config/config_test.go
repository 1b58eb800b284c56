package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxConcurrent != 8 {
		t.Fatalf("got MaxConcurrent=%d, want 8", cfg.MaxConcurrent)
	}
	if cfg.SigSize != 128 {
		t.Fatalf("got SigSize=%d, want 128", cfg.SigSize)
	}
	if cfg.SleepInterval != 2*time.Second {
		t.Fatalf("got SleepInterval=%v, want 2s", cfg.SleepInterval)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("RECOHUB_MAX_CONCURRENT", "42")
	defer os.Unsetenv("RECOHUB_MAX_CONCURRENT")

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxConcurrent != 42 {
		t.Fatalf("got MaxConcurrent=%d, want 42 from env override", cfg.MaxConcurrent)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("max-concurrent", 0, "")
	if err := fs.Parse([]string{"--max-concurrent=99"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxConcurrent != 99 {
		t.Fatalf("got MaxConcurrent=%d, want 99 from flag override", cfg.MaxConcurrent)
	}
}
