// Package cmd holds the shared startup plumbing for service binaries:
// config loading, flag parsing, and telemetry lifecycle.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/focusbuddy/internal/platform/config"
	"github.com/louisbranch/focusbuddy/internal/platform/otel"
	"github.com/louisbranch/focusbuddy/internal/platform/timeouts"
)

// Service identifiers used for telemetry resource naming.
const (
	ServiceTracker = "tracker"
)

// RunOptions tunes the shared entrypoint behavior.
type RunOptions struct {
	// ShutdownTimeout bounds the telemetry flush on exit. Zero means
	// timeouts.Shutdown.
	ShutdownTimeout time.Duration
}

// ParseConfig fills cfg from environment variables and their tag defaults.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags on top of whatever cfg already holds,
// so flags override environment values.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads environment defaults and then applies flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry sets up tracing for the named service, executes run, and
// flushes telemetry afterwards.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
func RunWithTelemetryAndOptions(ctx context.Context, service string, opts RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}

	flush, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer flushTelemetry(service, flush, opts.ShutdownTimeout)

	return run(ctx)
}

func flushTelemetry(service string, flush func(context.Context) error, timeout time.Duration) {
	if timeout <= 0 {
		timeout = timeouts.Shutdown
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := flush(ctx); err != nil {
		log.Printf("%s otel shutdown: %v", service, err)
	}
}
