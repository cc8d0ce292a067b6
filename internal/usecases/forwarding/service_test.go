package forwarding

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook/webhookclient/mocks"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type forwarderFunc func(ctx context.Context, targetURL string, payload any) domain.DeliveryResult

func (f forwarderFunc) Forward(ctx context.Context, targetURL string, payload any) domain.DeliveryResult {
	return f(ctx, targetURL, payload)
}

const activateURL = "https://n8n.example.com/webhook/activate-companies"

func newService(client *mocks.MockClient, forwarder forwarderFunc) ForwardingService {
	cfg := &config.Config{Webhook: config.Webhook{ActivateCompaniesURL: activateURL}}
	return NewService(client, forwarder, cfg)
}

func TestService_SendToClay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newService(client, nil)
	ctx := context.Background()

	t.Run("campos ausentes", func(t *testing.T) {
		_, err := service.SendToClay(ctx, domain.SendToClayRequest{})

		var fErr *ForwardingError
		require.ErrorAs(t, err, &fErr)
		assert.Equal(t, http.StatusBadRequest, fErr.Status)
		assert.Equal(t, "Missing required fields: webhookUrl, data", fErr.Message)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, fErr.Code)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("somente data ausente", func(t *testing.T) {
		_, err := service.SendToClay(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook"})
		assert.EqualError(t, err, "Missing required fields: data")
	})

	t.Run("sucesso devolve o JSON do destino", func(t *testing.T) {
		client.EXPECT().
			PostJSON(gomock.Any(), "https://clay.example/hook", map[string]any{"a": 1.0}).
			Return(&domain.DownstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}, nil)

		body, err := service.SendToClay(ctx, domain.SendToClayRequest{
			WebhookURL: "https://clay.example/hook",
			Data:       map[string]any{"a": 1.0},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("status de erro é repassado com o texto do destino", func(t *testing.T) {
		client.EXPECT().
			PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.DownstreamResponse{StatusCode: http.StatusInternalServerError, Body: []byte("boom")}, nil)

		_, err := service.SendToClay(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook", Data: "x"})

		var fErr *ForwardingError
		require.ErrorAs(t, err, &fErr)
		assert.Equal(t, http.StatusInternalServerError, fErr.Status)
		assert.Equal(t, "boom", fErr.Message)
		assert.ErrorIs(t, err, ErrDownstreamStatus)
	})

	t.Run("erro de transporte vira mensagem genérica", func(t *testing.T) {
		client.EXPECT().
			PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("dial tcp: connection refused"))

		_, err := service.SendToClay(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook", Data: "x"})

		var fErr *ForwardingError
		require.ErrorAs(t, err, &fErr)
		assert.Equal(t, http.StatusInternalServerError, fErr.Status)
		assert.Equal(t, sendToClayFailedMessage, fErr.Message)
	})

	t.Run("resposta 2xx sem JSON vira mensagem genérica", func(t *testing.T) {
		client.EXPECT().
			PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.DownstreamResponse{StatusCode: http.StatusOK, Body: []byte("Accepted")}, nil)

		_, err := service.SendToClay(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook", Data: "x"})
		assert.EqualError(t, err, sendToClayFailedMessage)
		assert.ErrorIs(t, err, ErrDownstreamFailed)
	})
}

func TestService_ActivateCompanies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newService(client, nil)
	ctx := context.Background()

	t.Run("campos ausentes", func(t *testing.T) {
		_, err := service.ActivateCompanies(ctx, domain.ActivateCompaniesRequest{Companies: []any{"acme"}})
		assert.EqualError(t, err, "Missing required fields: clay_webhook")
	})

	t.Run("envia o payload para a URL configurada", func(t *testing.T) {
		req := domain.ActivateCompaniesRequest{
			Companies:   []any{"acme"},
			ClayWebhook: "https://clay.example/hook",
		}

		client.EXPECT().
			PostJSON(gomock.Any(), activateURL, req).
			Return(&domain.DownstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"activated":1}`)}, nil)

		body, err := service.ActivateCompanies(ctx, req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"activated":1}`, string(body))
	})

	t.Run("erro de transporte", func(t *testing.T) {
		client.EXPECT().
			PostJSON(gomock.Any(), activateURL, gomock.Any()).
			Return(nil, errors.New("timeout"))

		_, err := service.ActivateCompanies(ctx, domain.ActivateCompaniesRequest{Companies: []any{}, ClayWebhook: "x"})
		assert.EqualError(t, err, activateCompaniesFailedMessage)
	})
}

func TestService_ForwardWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso", func(t *testing.T) {
		service := newService(nil, func(_ context.Context, targetURL string, _ any) domain.DeliveryResult {
			assert.Equal(t, "https://clay.example/hook", targetURL)
			return domain.DeliveryResult{Success: true, Method: domain.DeliveryMethodDirect, Outcome: domain.DeliveryUnverified}
		})

		result, err := service.ForwardWebhook(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook", Data: map[string]any{}})
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("falha em todos os métodos", func(t *testing.T) {
		service := newService(nil, func(context.Context, string, any) domain.DeliveryResult {
			return domain.DeliveryResult{Outcome: domain.DeliveryFailed, Error: "All delivery methods failed"}
		})

		result, err := service.ForwardWebhook(ctx, domain.SendToClayRequest{WebhookURL: "https://clay.example/hook", Data: "x"})

		var fErr *ForwardingError
		require.ErrorAs(t, err, &fErr)
		assert.Equal(t, http.StatusBadGateway, fErr.Status)
		assert.False(t, result.Success)
		assert.Equal(t, "All delivery methods failed", result.Error)
	})
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(nil))
	assert.True(t, isBlank(""))
	assert.True(t, isBlank(false))
	assert.True(t, isBlank(0.0))
	assert.False(t, isBlank("x"))
	assert.False(t, isBlank([]any{}))
	assert.False(t, isBlank(map[string]any{}))
}
