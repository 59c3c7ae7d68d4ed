// Package tracker parses tracker command flags and launches the tracker runtime.
package tracker

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/focusbuddy/internal/platform/cmd"
	trackerserver "github.com/louisbranch/focusbuddy/internal/services/tracker/app"
)

// Config holds tracker command configuration.
type Config struct {
	Port   int    `env:"FOCUSBUDDY_TRACKER_PORT" envDefault:"8090"`
	DBPath string `env:"FOCUSBUDDY_TRACKER_DB_PATH" envDefault:"data/tracker.db"`
}

// ParseConfig parses environment and flags into a Config. Environment
// values and their tag defaults seed the fields; explicit flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.IntVar(&cfg.Port, "port", 0, "The tracker health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", "", "The tracker SQLite database path")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the tracker runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTracker, func(context.Context) error {
		return trackerserver.Run(ctx, trackerserver.RuntimeConfig{
			Port:   cfg.Port,
			DBPath: cfg.DBPath,
		})
	})
}
