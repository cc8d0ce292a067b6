package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Contadores(t *testing.T) {
	manager := NewManager(WithNamespace("test"), WithPrometheusRegistry(prometheus.NewRegistry()))

	manager.DeliveryAttempted("direct-no-cors", "failed")
	manager.DeliveryAttempted("proxy", "confirmed")
	manager.DeliveryAttempted("proxy", "confirmed")
	manager.ProxyRequest("send-to-clay", http.StatusBadRequest)
	manager.AccountsPublished(42)
	manager.AccountFetchFailed()
	manager.ObserveDownstream("proxy", 120*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(manager.webhookDeliveries.WithLabelValues("direct-no-cors", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(manager.webhookDeliveries.WithLabelValues("proxy", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(manager.proxyRequests.WithLabelValues("send-to-clay", "400")))
	assert.Equal(t, 42.0, testutil.ToFloat64(manager.accountsPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(manager.accountFetchErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(manager.downstreamDuration))
}

func TestManager_Handler(t *testing.T) {
	manager := NewManager(WithNamespace("icp"))
	manager.AccountsPublished(3)

	server := httptest.NewServer(manager.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "icp_accounts_published 3")
	assert.NotContains(t, string(body), "go_goroutines")
}

func TestManager_RegistriesIsolados(t *testing.T) {
	assert.NotPanics(t, func() {
		NewManager()
		NewManager()
	})
}
