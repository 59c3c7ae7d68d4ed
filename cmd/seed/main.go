// Package main provides a CLI for seeding a local tracker database with
// demo data.
package main

import (
	"context"
	"flag"
	"os"

	seedcmd "github.com/louisbranch/focusbuddy/internal/cmd/seed"
	"github.com/louisbranch/focusbuddy/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := seedcmd.Run(context.Background(), cfg); err != nil {
		config.Exitf("seed tracker data: %v", err)
	}
}
