package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sheets   SheetsConfig   `yaml:"sheets" mapstructure:"sheets"`
	Geocoder GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SheetsConfig configures the spreadsheet-backed datastore.
type SheetsConfig struct {
	DocumentID string      `yaml:"document_id" mapstructure:"document_id"`
	BaseURL    string      `yaml:"base_url" mapstructure:"base_url"`
	Workbook   string      `yaml:"workbook" mapstructure:"workbook"` // local xlsx path; overrides the remote document when set
	Inventory  TableConfig `yaml:"inventory" mapstructure:"inventory"`
	Inquiries  TableConfig `yaml:"inquiries" mapstructure:"inquiries"`
	Owners     TableConfig `yaml:"owners" mapstructure:"owners"`
	Missing    TableConfig `yaml:"missing_inventory" mapstructure:"missing_inventory"`
	Leads      TableConfig `yaml:"pending_leads" mapstructure:"pending_leads"`
}

// TableConfig names one tab of the backing spreadsheet plus an optional
// A1-style range restriction.
type TableConfig struct {
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
	Range string `yaml:"range" mapstructure:"range"`
}

// GeocoderConfig configures the live address geocoder (write path only).
type GeocoderConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	ContactEmail string  `yaml:"contact_email" mapstructure:"contact_email"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	CachePath    string  `yaml:"cache_path" mapstructure:"cache_path"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DRIVAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sheets.base_url", "https://docs.google.com")
	v.SetDefault("sheets.inventory.sheet", "inventory")
	v.SetDefault("sheets.inquiries.sheet", "inquiries")
	v.SetDefault("sheets.owners.sheet", "owners")
	v.SetDefault("sheets.missing_inventory.sheet", "missing inventory")
	v.SetDefault("sheets.pending_leads.sheet", "listing_requests")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "drivar-dashboard (contact@drivar.de)")
	v.SetDefault("geocoder.rate_per_sec", 1)
	v.SetDefault("geocoder.cache_path", "geocode-cache.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
