// Package config provides layered configuration for bugdash.
//
// Values come from built-in defaults, an optional YAML file, BUGDASH_*
// environment variables and explicitly set command-line flags, in that
// order of increasing precedence.
package config

import "time"

// Defaults.
const (
	DefaultDataPath        = "data/bugs.csv"
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTopCategories   = 10
	DefaultPalette         = "viridis"
	DefaultLocale          = "en"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// DefaultKPISeverities are the severities given their own KPI card.
var DefaultKPISeverities = []string{"Critical", "High"}

// Config holds all bugdash configuration.
type Config struct {
	DataPath  string          `koanf:"data_path" validate:"required"`
	Server    ServerConfig    `koanf:"server"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig holds configuration for the web dashboard.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	SessionSecret   string        `koanf:"session_secret"` // random per process when empty
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// DashboardConfig holds knobs for what the dashboard computes and shows.
type DashboardConfig struct {
	TopCategories int      `koanf:"top_categories" validate:"gte=1,lte=100"`
	KPISeverities []string `koanf:"kpi_severities" validate:"required,min=1,dive,required"`
	Palette       string   `koanf:"palette" validate:"oneof=default viridis rocket"`
	Locale        string   `koanf:"locale" validate:"required,bcp47_language_tag"`
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_path":                DefaultDataPath,
		"server.addr":              DefaultAddr,
		"server.session_secret":    "",
		"server.shutdown_timeout":  DefaultShutdownTimeout,
		"dashboard.top_categories": DefaultTopCategories,
		"dashboard.kpi_severities": DefaultKPISeverities,
		"dashboard.palette":        DefaultPalette,
		"dashboard.locale":         DefaultLocale,
		"log.level":                DefaultLogLevel,
		"log.format":               DefaultLogFormat,
	}
}
