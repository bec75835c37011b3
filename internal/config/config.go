// Package config provides YAML-based configuration for repostat.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/repostat/internal/colormap"
	"github.com/Sumatoshi-tech/repostat/internal/reporterr"
)

// Sentinel validation errors.
var (
	ErrNegativeLimit   = fmt.Errorf("%w: report limits must be non-negative", reporterr.ErrInvalidArgument)
	ErrEmptyExecutable = fmt.Errorf("%w: chart executable is required when charts are enabled", reporterr.ErrInvalidArgument)
	ErrInvalidLogLevel = fmt.Errorf("%w: unknown log level", reporterr.ErrInvalidArgument)
)

// Config is the top-level configuration struct for repostat.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ReportConfig holds page limits and presentation settings.
type ReportConfig struct {
	MaxAuthors         int    `mapstructure:"max_authors"`
	AuthorsTop         int    `mapstructure:"authors_top"`
	MaxAuthorsOfMonths int    `mapstructure:"max_authors_of_months"`
	MaxDomains         int    `mapstructure:"max_domains"`
	MaxRecentTags      int    `mapstructure:"max_recent_tags"`
	ProcessTags        bool   `mapstructure:"process_tags"`
	Relocatable        bool   `mapstructure:"relocatable"`
	Colormap           string `mapstructure:"colormap"`
	AssetsDir          string `mapstructure:"assets_dir"`
}

// ChartConfig holds external chart engine settings.
type ChartConfig struct {
	Executable string `mapstructure:"executable"`
	ScriptsDir string `mapstructure:"scripts_dir"`
	Enabled    bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds trace and metric export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	reportErr := c.Report.Validate()
	if reportErr != nil {
		return reportErr
	}

	if c.Chart.Enabled && strings.TrimSpace(c.Chart.Executable) == "" {
		return ErrEmptyExecutable
	}

	_, levelErr := c.Logging.SlogLevel()

	return levelErr
}

// Validate checks that every limit is non-negative and the colormap exists.
func (r ReportConfig) Validate() error {
	limits := []struct {
		key   string
		value int
	}{
		{"report.max_authors", r.MaxAuthors},
		{"report.authors_top", r.AuthorsTop},
		{"report.max_authors_of_months", r.MaxAuthorsOfMonths},
		{"report.max_domains", r.MaxDomains},
		{"report.max_recent_tags", r.MaxRecentTags},
	}

	for _, limit := range limits {
		if limit.value < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeLimit, limit.key, limit.value)
		}
	}

	_, paletteErr := colormap.Lookup(r.Colormap)

	return paletteErr
}

// SlogLevel parses the configured level name.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}
