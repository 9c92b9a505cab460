package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Dashboard Dashboard `mapstructure:"dashboard"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
}

// CoinGecko holds the configuration for the market-data API.
type CoinGecko struct {
	BaseURL        string  `mapstructure:"base_url"`
	ApiKey         string  `mapstructure:"api_key"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSec     int     `mapstructure:"timeout_sec"`
}

// Dashboard holds the fetch parameters and timers of the dashboard view.
type Dashboard struct {
	Currency         string `mapstructure:"currency"`
	PageSize         int    `mapstructure:"page_size"`
	RowsPerPage      int    `mapstructure:"rows_per_page"`
	HighlightRows    int    `mapstructure:"highlight_rows"`
	SearchDebounceMs int    `mapstructure:"search_debounce_ms"`
	GlobalRefreshSec int    `mapstructure:"global_refresh_sec"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the diagnostics journal.
// An empty DSN disables the journal.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("coingecko.rate_limit", 0.5) // requests per second, demo plan is 30/min
	v.SetDefault("coingecko.rate_limit_burst", 3)
	v.SetDefault("coingecko.timeout_sec", 10)

	v.SetDefault("dashboard.currency", "usd")
	v.SetDefault("dashboard.page_size", 50)
	v.SetDefault("dashboard.rows_per_page", 10)
	v.SetDefault("dashboard.highlight_rows", 10)
	v.SetDefault("dashboard.search_debounce_ms", 300)
	v.SetDefault("dashboard.global_refresh_sec", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "dashboard.db")
}

// LoadConfig reads configuration from a .env file, the config file and
// environment variables, in increasing order of precedence.
// Neither the .env file nor the config file has to exist.
func LoadConfig(path string) (config Config, err error) {
	// .env only seeds variables that are not already set in the process.
	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
