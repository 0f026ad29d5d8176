package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/watchstore/internal/flagx"
	"github.com/dmitrijs2005/watchstore/internal/timex"
)

// jsonConfig is the on-disk form. Durations accept "15s" or nanoseconds.
type jsonConfig struct {
	UsersURL       string          `json:"users_url"`
	CatalogURL     string          `json:"catalog_url"`
	OrdersURL      string          `json:"orders_url"`
	InventoryURL   string          `json:"inventory_url"`
	ReviewsURL     string          `json:"reviews_url"`
	DBPath         string          `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
	LogFile        string          `json:"log_file"`
}

// parseJSON overlays cfg with the fields present in the config file. No
// -c/-config flag means nothing to do.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.UsersURL, jc.UsersURL)
	set(&cfg.CatalogURL, jc.CatalogURL)
	set(&cfg.OrdersURL, jc.OrdersURL)
	set(&cfg.InventoryURL, jc.InventoryURL)
	set(&cfg.ReviewsURL, jc.ReviewsURL)
	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	set(&cfg.LogFile, jc.LogFile)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
