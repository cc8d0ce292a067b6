package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/icp-dashboard-api/internal/api/handler"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/forwarding"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/qualifying"
	"github.com/vfg2006/icp-dashboard-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

type cronStub struct {
	triggered int
}

func (c *cronStub) TriggerManualSync()        { c.triggered++ }
func (c *cronStub) GetStatus() map[string]any { return map[string]any{"sync_enabled": false} }

type testServer struct {
	handler http.Handler
	repo    *mocks.MockExploriumRepository
	cron    *cronStub
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExploriumRepository(ctrl)

	if cfg.Webhook.Timeout == 0 {
		cfg.Webhook.Timeout = 5 * time.Second
	}
	cfg.Webhook.RateLimit = 100
	cfg.Webhook.RateBurst = 10

	manager := metrics.NewManager()
	client := webhookclient.NewClient(cfg)
	forwarder, err := webhook.New(cfg, client, manager)
	require.NoError(t, err)

	qualifyingService := qualifying.NewService(repo, qualifying.StaticSignalProvider{})
	cron := &cronStub{}

	h := NewHandler(cfg, Dependencies{
		Feed:              qualifying.NewAccountFeed(qualifyingService, manager),
		QualifyingService: qualifyingService,
		ForwardingService: forwarding.NewService(client, forwarder, cfg),
		Authenticator:     authenticating.NewService(cfg),
		CronJobs:          handler.CronJobServices{AccountRefreshService: cron},
		ProxyObserver:     manager,
		MetricsHandler:    manager.Handler(),
	})

	return &testServer{handler: h, repo: repo, cron: cron}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestProxy_SendToClay(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"received":` + string(body) + `}`))
	}))
	defer downstream.Close()

	server := newTestServer(t, &config.Config{})

	t.Run("corpo vazio nomeia os campos ausentes", func(t *testing.T) {
		rec := server.do(http.MethodPost, "/api/send-to-clay", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing required fields: webhookUrl, data"}`, rec.Body.String())
	})

	t.Run("status de erro do destino é repassado", func(t *testing.T) {
		rec := server.do(http.MethodPost, "/api/send-to-clay", `{"webhookUrl":"`+downstream.URL+`/fail","data":{"a":1}}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
	})

	t.Run("sucesso devolve o JSON do destino", func(t *testing.T) {
		rec := server.do(http.MethodPost, "/api/send-to-clay", `{"webhookUrl":"`+downstream.URL+`/ok","data":{"a":1}}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":{"a":1}}`, rec.Body.String())
	})

	t.Run("sem corpo nomeia os dois campos", func(t *testing.T) {
		rec := server.do(http.MethodPost, "/api/send-to-clay", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing required fields: webhookUrl, data"}`, rec.Body.String())
	})

	t.Run("JSON malformado é erro do cliente", func(t *testing.T) {
		for _, body := range []string{`{"webhookUrl":`, `{bad`} {
			rec := server.do(http.MethodPost, "/api/send-to-clay", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.JSONEq(t, `{"error":"Invalid JSON body"}`, rec.Body.String(), body)
		}
	})
}

func TestProxy_ActivateCompanies(t *testing.T) {
	var received string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer downstream.Close()

	server := newTestServer(t, &config.Config{Webhook: config.Webhook{ActivateCompaniesURL: downstream.URL}})

	rec := server.do(http.MethodPost, "/api/activate-companies", `{"companies":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields: clay_webhook"}`, rec.Body.String())

	rec = server.do(http.MethodPost, "/api/activate-companies", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields: companies, clay_webhook"}`, rec.Body.String())

	rec = server.do(http.MethodPost, "/api/activate-companies", `{bad`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, rec.Body.String())

	rec = server.do(http.MethodPost, "/api/activate-companies", `{"companies":[{"id":"b-1"}],"clay_webhook":"https://clay.example/hook"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.JSONEq(t, `{"companies":[{"id":"b-1"}],"clay_webhook":"https://clay.example/hook"}`, received)
}

func TestProxy_ForwardWebhook(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer target.Close()

	server := newTestServer(t, &config.Config{})

	rec := server.do(http.MethodPost, "/api/forward-webhook", `{"webhookUrl":"`+target.URL+`","data":{"a":1}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.DeliveryResult
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, domain.DeliveryMethodDirect, result.Method)

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	rec = server.do(http.MethodPost, "/api/forward-webhook", `{"webhookUrl":"`+deadURL+`","data":{"a":1}}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "All delivery methods failed")

	metricsRec := server.do(http.MethodGet, "/metrics", "")
	assert.Contains(t, metricsRec.Body.String(), `icp_webhook_deliveries_total{method="direct-no-cors",outcome="unverified"} 1`)
	assert.Contains(t, metricsRec.Body.String(), `icp_proxy_requests_total{endpoint="forward-webhook",status="502"} 1`)
}

func TestAccounts(t *testing.T) {
	server := newTestServer(t, &config.Config{})
	score := 85.0
	name := "Acme"

	server.repo.EXPECT().
		ListCompanies(gomock.Any()).
		Return([]*domain.ExploriumCompany{{BusinessID: "b-1", Name: &name, Score: &score}}, nil).
		Times(1)

	rec := server.do(http.MethodGet, "/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.AccountFeedState
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Accounts, 1)
	assert.Equal(t, "Acme", state.Accounts[0].Name)
	assert.Equal(t, domain.TierA, state.Accounts[0].Tier)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Error)

	// a segunda leitura usa o estado publicado
	rec = server.do(http.MethodGet, "/v1/summary/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	server.repo.EXPECT().ListCompanies(gomock.Any()).Return(nil, errors.New("boom"))

	rec = server.do(http.MethodPost, "/v1/accounts/refresh", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SRV_002"`)

	rec = server.do(http.MethodGet, "/v1/accounts", "")
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &state))
	assert.Len(t, state.Accounts, 1)
	require.NotNil(t, state.Error)
}

func TestAccounts_TabelaVazia(t *testing.T) {
	server := newTestServer(t, &config.Config{})

	server.repo.EXPECT().
		ListCompanies(gomock.Any()).
		Return([]*domain.ExploriumCompany{}, nil).
		Times(1)

	rec := server.do(http.MethodGet, "/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accounts":[]`)
	assert.NotContains(t, rec.Body.String(), `"accounts":null`)
}

func TestEvents(t *testing.T) {
	server := newTestServer(t, &config.Config{})

	server.repo.EXPECT().
		ListEventsByExaID(gomock.Any(), "exa-1").
		Return([]*domain.ExploriumEventRow{
			{EventID: "e1", EventName: "hiring", EventTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Data: []byte(`"{\"a\":1}"`), ExaID: "exa-1"},
		}, nil).
		Times(2)

	for _, path := range []string{"/v1/accounts/exa-1/events", "/v1/events?exa_id=exa-1"} {
		rec := server.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"data":{"a":1}`)
	}

	rec := server.do(http.MethodGet, "/v1/events", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCronJobs(t *testing.T) {
	server := newTestServer(t, &config.Config{})

	rec := server.do(http.MethodPost, "/v1/cron/accounts/run", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, server.cron.triggered)

	rec = server.do(http.MethodPost, "/v1/cron/unknown/run", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(http.MethodGet, "/v1/cron/status", "")
	assert.JSONEq(t, `{"accounts":{"sync_enabled":false}}`, rec.Body.String())
}

func TestAuthProtegeSomenteV1(t *testing.T) {
	server := newTestServer(t, &config.Config{Auth: config.Auth{Secret: "s3cret"}})

	rec := server.do(http.MethodGet, "/v1/accounts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = server.do(http.MethodPost, "/api/send-to-clay", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRotaDesconhecida(t *testing.T) {
	server := newTestServer(t, &config.Config{})

	rec := server.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
