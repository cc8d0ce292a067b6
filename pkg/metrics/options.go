package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option aplica uma configuração ao Manager
type Option func(*Manager)

// WithNamespace define o namespace de todas as métricas
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets define os buckets do histograma de latência das chamadas externas
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry define o registry usado para registrar e expor as métricas
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
