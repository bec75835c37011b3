package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".repostat"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for repostat settings.
const envPrefix = "REPOSTAT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("report.max_authors", DefaultMaxAuthors)
	viperCfg.SetDefault("report.authors_top", DefaultAuthorsTop)
	viperCfg.SetDefault("report.max_authors_of_months", DefaultMaxAuthorsOfMonths)
	viperCfg.SetDefault("report.max_domains", DefaultMaxDomains)
	viperCfg.SetDefault("report.max_recent_tags", DefaultMaxRecentTags)
	viperCfg.SetDefault("report.process_tags", DefaultProcessTags)
	viperCfg.SetDefault("report.relocatable", DefaultRelocatable)
	viperCfg.SetDefault("report.colormap", DefaultColormap)
	viperCfg.SetDefault("report.assets_dir", DefaultAssetsDir)

	viperCfg.SetDefault("chart.executable", DefaultChartExecutable)
	viperCfg.SetDefault("chart.scripts_dir", DefaultChartScriptsDir)
	viperCfg.SetDefault("chart.enabled", DefaultChartEnabled)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_file", DefaultMetricsFile)
}
