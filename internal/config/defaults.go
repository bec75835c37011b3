package config

import "github.com/Sumatoshi-tech/repostat/internal/colormap"

// Report defaults.
const (
	DefaultMaxAuthors         = 20
	DefaultAuthorsTop         = 5
	DefaultMaxAuthorsOfMonths = 6
	DefaultMaxDomains         = 10
	DefaultMaxRecentTags      = 0
	DefaultProcessTags        = true
	DefaultRelocatable        = false
	DefaultColormap           = colormap.DefaultPalette
	DefaultAssetsDir          = ""
)

// Chart engine defaults.
const (
	DefaultChartExecutable = "gnuplot"
	DefaultChartScriptsDir = ""
	DefaultChartEnabled    = true
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultMetricsFile  = ""
)
