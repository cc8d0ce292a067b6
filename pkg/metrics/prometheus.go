// Package metrics expõe as métricas Prometheus do dashboard ICP
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Webhook
	webhookDeliveries  *prometheus.CounterVec
	downstreamDuration *prometheus.HistogramVec

	// Proxy HTTP
	proxyRequests *prometheus.CounterVec

	// Feed de contas
	accountsPublished    prometheus.Gauge
	accountFetchErrors   prometheus.Counter
	accountLastFetchUnix prometheus.Gauge
}

// NewManager cria o Manager com um registry próprio, sem as métricas padrão do Go
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "icp",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.webhookDeliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "webhook_deliveries_total",
		Help:      "Tentativas de entrega de webhook por método e resultado",
	}, []string{"method", "outcome"})

	m.downstreamDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "downstream_request_duration_seconds",
		Help:      "Duração das requisições enviadas para webhooks externos",
		Buckets:   m.histogramBuckets,
	}, []string{"method"})

	m.proxyRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "proxy_requests_total",
		Help:      "Requisições atendidas pelo proxy por endpoint e status HTTP",
	}, []string{"endpoint", "status"})

	m.accountsPublished = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "accounts_published",
		Help:      "Quantidade de contas qualificadas na última lista publicada",
	})

	m.accountFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "account_fetch_errors_total",
		Help:      "Falhas ao buscar as contas qualificadas",
	})

	m.accountLastFetchUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "account_last_fetch_timestamp_seconds",
		Help:      "Horário da última publicação bem sucedida da lista de contas",
	})
}

// DeliveryAttempted conta uma tentativa de entrega de webhook
func (m *Manager) DeliveryAttempted(method, outcome string) {
	m.webhookDeliveries.WithLabelValues(method, outcome).Inc()
}

// ObserveDownstream registra a duração de uma chamada a um webhook externo
func (m *Manager) ObserveDownstream(method string, duration time.Duration) {
	m.downstreamDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ProxyRequest conta uma resposta do proxy
func (m *Manager) ProxyRequest(endpoint string, status int) {
	m.proxyRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *Manager) AccountsPublished(count int) {
	m.accountsPublished.Set(float64(count))
	m.accountLastFetchUnix.SetToCurrentTime()
}

func (m *Manager) AccountFetchFailed() {
	m.accountFetchErrors.Inc()
}

// Handler expõe o registry no formato de texto do Prometheus
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
