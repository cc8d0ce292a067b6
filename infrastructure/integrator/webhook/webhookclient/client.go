package webhookclient

import (
	"context"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

// Client envia requisições para webhooks externos. Erros retornados são
// apenas de transporte: respostas com status não 2xx voltam em DownstreamResponse.
type Client interface {
	PostJSON(ctx context.Context, targetURL string, payload any) (*domain.DownstreamResponse, error)
	PostForm(ctx context.Context, targetURL string, values url.Values) (*domain.DownstreamResponse, error)
}

type WebhookClient struct {
	httpClient *http.Client
	limiter    *HostLimiter
}

func NewClient(cfg *config.Config) Client {
	return &WebhookClient{
		httpClient: &http.Client{
			Timeout: cfg.Webhook.Timeout,
		},
		limiter: NewHostLimiter(cfg.Webhook.RateLimit, cfg.Webhook.RateBurst),
	}
}
