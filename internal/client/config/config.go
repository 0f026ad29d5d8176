package config

import (
	"os"
	"time"
)

// Config holds runtime settings of the storefront CLI.
type Config struct {
	UsersURL     string
	CatalogURL   string
	OrdersURL    string
	InventoryURL string
	ReviewsURL   string

	// DBPath is the local SQLite file holding the session and guest cart.
	DBPath string
	// RequestTimeout bounds each backend round trip; zero means none.
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
	// LogFile, when set, receives the log instead of stderr.
	LogFile string
}

// LoadDefaults points every backend at the local gateway ports.
func (c *Config) LoadDefaults() {
	c.UsersURL = "http://localhost:8081/api"
	c.CatalogURL = "http://localhost:8082/api"
	c.OrdersURL = "http://localhost:8083/api"
	c.InventoryURL = "http://localhost:8084/api"
	c.ReviewsURL = "http://localhost:8085/api"
	c.DBPath = "watchstore.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = ""
}

// RefreshURL is where every backend client sends token refreshes.
func (c *Config) RefreshURL() string {
	return c.UsersURL + "/auth/refresh"
}

// LoadConfig applies defaults, then the JSON file given by -c/-config, then
// flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
