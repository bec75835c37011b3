package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// withPrometheusReader appends a Prometheus exporter reader backed by a fresh
// registry, so OTel instruments can be gathered in Prometheus text format.
// Each call creates an independent registry to avoid collector conflicts.
func withPrometheusReader(opts []sdkmetric.Option) (*prometheus.Registry, []sdkmetric.Option, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return registry, append(opts, sdkmetric.WithReader(exporter)), nil
}

// WriteMetricsFile gathers every metric of registry and writes them to path
// in the Prometheus text exposition format, for node_exporter's textfile collector.
func WriteMetricsFile(path string, registry prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
