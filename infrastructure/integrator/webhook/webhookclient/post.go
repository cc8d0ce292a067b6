package webhookclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
)

const maxResponseBody = 4 << 20

func (c *WebhookClient) PostJSON(ctx context.Context, targetURL string, payload any) (*domain.DownstreamResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao serializar o payload")
	}

	return c.post(ctx, targetURL, "application/json", bytes.NewReader(body))
}

func (c *WebhookClient) PostForm(ctx context.Context, targetURL string, values url.Values) (*domain.DownstreamResponse, error) {
	return c.post(ctx, targetURL, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func (c *WebhookClient) post(ctx context.Context, targetURL, contentType string, body io.Reader) (*domain.DownstreamResponse, error) {
	if err := c.limiter.WaitURL(ctx, targetURL); err != nil {
		return nil, errors.Wrap(err, "limite de requisições por host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler a resposta")
	}

	return &domain.DownstreamResponse{
		StatusCode: resp.StatusCode,
		Body:       data,
	}, nil
}
