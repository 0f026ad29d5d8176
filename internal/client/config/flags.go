package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/watchstore/internal/flagx"
)

var knownFlags = []string{"-u", "-p", "-o", "-n", "-r", "-d", "-t", "-l"}

// parseFlags overlays cfg with command-line flags. Flags owned by other
// loaders (-c) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("watchstore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.UsersURL, "u", cfg.UsersURL, "users service base URL")
	fs.StringVar(&cfg.CatalogURL, "p", cfg.CatalogURL, "catalog (products) service base URL")
	fs.StringVar(&cfg.OrdersURL, "o", cfg.OrdersURL, "orders service base URL")
	fs.StringVar(&cfg.InventoryURL, "n", cfg.InventoryURL, "inventory service base URL")
	fs.StringVar(&cfg.ReviewsURL, "r", cfg.ReviewsURL, "reviews service base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout in seconds, 0 for none")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
