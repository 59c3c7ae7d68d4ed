package tracker

import (
	"flag"
	"testing"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	t.Setenv("FOCUSBUDDY_TRACKER_PORT", "9099")

	cfg, err := ParseConfig(fs, []string{"-db-path", "tmp/tracker-e2e.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9099 {
		t.Fatalf("port = %d, want 9099", cfg.Port)
	}
	if cfg.DBPath != "tmp/tracker-e2e.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "tmp/tracker-e2e.db")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("port = %d, want 8090", cfg.Port)
	}
	if cfg.DBPath != "data/tracker.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "data/tracker.db")
	}
}
