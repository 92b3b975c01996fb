package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "crm"

// Config represents the complete configuration.
type Config struct {
	Jobs            Jobs     `yaml:"jobs"            json:"jobs"`
	Database        Database `yaml:"database"        json:"database"`
	HTTP            HTTP     `yaml:"http"            json:"http"`
	Log             Log      `yaml:"log"             json:"log"`
	GraphQLEndpoint string   `yaml:"graphqlEndpoint" json:"graphqlEndpoint" envconfig:"GRAPHQL_ENDPOINT"`
	Client          Client   `yaml:"client"          json:"client"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr            string        `yaml:"addr"            json:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout" split_words:"true"`
	GraphiQL        bool          `yaml:"graphiql"        json:"graphiql"`
}

// Database selects the GORM dialect. Driver is "sqlite" or "mysql".
type Database struct {
	Driver   string `yaml:"driver"   json:"driver"`
	DSN      string `yaml:"dsn"      json:"dsn"`
	LogLevel string `yaml:"logLevel" json:"logLevel" split_words:"true"`
}

// Client configures the HTTP client background jobs use to reach the API.
type Client struct {
	Timeout      time.Duration `yaml:"timeout"      json:"timeout"`
	RetryWaitMin time.Duration `yaml:"retryWaitMin" json:"retryWaitMin" split_words:"true"`
	RetryWaitMax time.Duration `yaml:"retryWaitMax" json:"retryWaitMax" split_words:"true"`
	RetryMax     int           `yaml:"retryMax"     json:"retryMax"     split_words:"true"`
}

// Jobs holds one log file and one cron spec per background job.
type Jobs struct {
	HeartbeatLog      string        `yaml:"heartbeatLog"      json:"heartbeatLog"      split_words:"true"`
	LowStockLog       string        `yaml:"lowStockLog"       json:"lowStockLog"       split_words:"true"`
	RemindersLog      string        `yaml:"remindersLog"      json:"remindersLog"      split_words:"true"`
	ReportLog         string        `yaml:"reportLog"         json:"reportLog"         split_words:"true"`
	HeartbeatSchedule string        `yaml:"heartbeatSchedule" json:"heartbeatSchedule" split_words:"true"`
	LowStockSchedule  string        `yaml:"lowStockSchedule"  json:"lowStockSchedule"  split_words:"true"`
	RemindersSchedule string        `yaml:"remindersSchedule" json:"remindersSchedule" split_words:"true"`
	ReportSchedule    string        `yaml:"reportSchedule"    json:"reportSchedule"    split_words:"true"`
	ReminderWindow    time.Duration `yaml:"reminderWindow"    json:"reminderWindow"    split_words:"true"`
}

// Log configures the server logger.
type Log struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Driver:   "sqlite",
			DSN:      "crm.db?_foreign_keys=on",
			LogLevel: "warn",
		},
		GraphQLEndpoint: "http://localhost:8000/graphql",
		Client: Client{
			Timeout:      30 * time.Second,
			RetryMax:     3,
			RetryWaitMin: time.Second,
			RetryWaitMax: 10 * time.Second,
		},
		Jobs: Jobs{
			HeartbeatLog:      "/tmp/crm_heartbeat_log.txt",
			LowStockLog:       "/tmp/low_stock_updates_log.txt",
			RemindersLog:      "/tmp/order_reminders_log.txt",
			ReportLog:         "/tmp/crm_report_log.txt",
			HeartbeatSchedule: "*/5 * * * *",
			LowStockSchedule:  "0 */12 * * *",
			RemindersSchedule: "0 8 * * *",
			ReportSchedule:    "0 6 * * 1",
			ReminderWindow:    7 * 24 * time.Hour,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional file at path
// and CRM_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays a YAML or JSON file (chosen by extension) onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	}
	return nil
}

// Validate rejects configurations the server or jobs cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.GraphQLEndpoint == "" {
		return fmt.Errorf("graphql endpoint is required")
	}
	if c.Client.RetryMax < 0 {
		return fmt.Errorf("client retry max cannot be negative")
	}
	return nil
}
