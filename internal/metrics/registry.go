// Package metrics exports navigator and solver activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultNamespace prefixes all metrics when none is configured
	DefaultNamespace = "tacnav"
	// Subsystem for navigator metrics
	subsystem = "navigator"
)

// Registry is the global Prometheus registry for all metrics
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}
