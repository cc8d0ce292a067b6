package forwarding

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/apiErrors"
)

type ForwardingService interface {
	SendToClay(ctx context.Context, req domain.SendToClayRequest) (jsoniter.RawMessage, error)
	ActivateCompanies(ctx context.Context, req domain.ActivateCompaniesRequest) (jsoniter.RawMessage, error)
	ForwardWebhook(ctx context.Context, req domain.SendToClayRequest) (domain.DeliveryResult, error)
}

type Service struct {
	client               webhookclient.Client
	forwarder            webhook.Forwarder
	activateCompaniesURL string
}

func NewService(
	client webhookclient.Client,
	forwarder webhook.Forwarder,
	cfg *config.Config,
) ForwardingService {
	return &Service{
		client:               client,
		forwarder:            forwarder,
		activateCompaniesURL: cfg.Webhook.ActivateCompaniesURL,
	}
}

// SendToClay repassa data para webhookUrl e devolve o JSON do destino
func (s *Service) SendToClay(ctx context.Context, req domain.SendToClayRequest) (jsoniter.RawMessage, error) {
	if missing := missingFields(
		field{"webhookUrl", req.WebhookURL},
		field{"data", req.Data},
	); len(missing) > 0 {
		return nil, newMissingFieldsError(missing)
	}

	logrus.WithField("webhook_url", req.WebhookURL).Info("Enviando dados para o Clay")

	return s.relay(ctx, req.WebhookURL, req.Data, sendToClayFailedMessage)
}

// ActivateCompanies envia companies e clay_webhook para o webhook de ativação configurado
func (s *Service) ActivateCompanies(ctx context.Context, req domain.ActivateCompaniesRequest) (jsoniter.RawMessage, error) {
	if missing := missingFields(
		field{"companies", req.Companies},
		field{"clay_webhook", req.ClayWebhook},
	); len(missing) > 0 {
		return nil, newMissingFieldsError(missing)
	}

	logrus.WithField("webhook_url", s.activateCompaniesURL).Info("Ativando empresas")

	return s.relay(ctx, s.activateCompaniesURL, req, activateCompaniesFailedMessage)
}

// ForwardWebhook executa a cadeia de entrega com fallback no servidor
func (s *Service) ForwardWebhook(ctx context.Context, req domain.SendToClayRequest) (domain.DeliveryResult, error) {
	if missing := missingFields(
		field{"webhookUrl", req.WebhookURL},
		field{"data", req.Data},
	); len(missing) > 0 {
		return domain.DeliveryResult{}, newMissingFieldsError(missing)
	}

	result := s.forwarder.Forward(ctx, req.WebhookURL, req.Data)
	if !result.Success {
		return result, &ForwardingError{
			Err:     ErrDeliveryFailed,
			Code:    apiErrors.ErrExternalService,
			Status:  http.StatusBadGateway,
			Message: result.Error,
		}
	}

	return result, nil
}

func (s *Service) relay(ctx context.Context, targetURL string, payload any, failedMessage string) (jsoniter.RawMessage, error) {
	logger := logrus.WithField("webhook_url", targetURL)

	resp, err := s.client.PostJSON(ctx, targetURL, payload)
	if err != nil {
		logger.WithError(err).Error("Erro ao chamar webhook de destino")
		return nil, newDownstreamFailedError(failedMessage)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.WithField("status", resp.StatusCode).Warn("Webhook de destino respondeu com erro")
		return nil, newDownstreamStatusError(resp.StatusCode, resp.Body)
	}

	if !jsoniter.Valid(resp.Body) {
		logger.Error("Webhook de destino respondeu com JSON inválido")
		return nil, newDownstreamFailedError(failedMessage)
	}

	return jsoniter.RawMessage(resp.Body), nil
}

type field struct {
	name  string
	value any
}

// missingFields lista os campos ausentes, nulos ou vazios, na ordem recebida
func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if isBlank(f.value) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}
