package config

// MetricsConfig holds metrics collection configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// TextfilePath receives the registry in Prometheus text format after each command,
	// for pickup by the node_exporter textfile collector. Empty disables the export.
	TextfilePath string `mapstructure:"textfile_path" validate:"omitempty,endswith=.prom"`
}
