package config

import (
	"strings"
	"testing"
)

type trackerEnv struct {
	Port   int    `env:"FOCUSBUDDY_ENVTEST_PORT" envDefault:"8090"`
	DBPath string `env:"FOCUSBUDDY_ENVTEST_DB_PATH" envDefault:"data/tracker.db"`
}

func TestParseEnv(t *testing.T) {
	t.Setenv("FOCUSBUDDY_ENVTEST_PORT", "9100")

	var cfg trackerEnv
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() = %v, want nil", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.DBPath != "data/tracker.db" {
		t.Fatalf("DBPath = %q, want default", cfg.DBPath)
	}
}

func TestParseEnvInvalidValue(t *testing.T) {
	t.Setenv("FOCUSBUDDY_ENVTEST_PORT", "not-a-port")

	var cfg trackerEnv
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("ParseEnv() = nil, want error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("error = %v, want parse env prefix", err)
	}
}

func TestParseEnvNilTarget(t *testing.T) {
	if err := ParseEnv(nil); err == nil {
		t.Fatal("ParseEnv(nil) = nil, want error")
	}
}
