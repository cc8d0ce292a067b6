package webhook

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	allMethodsFailedMessage = "All delivery methods failed"
	formFieldName           = "data"
	urlPlaceholder          = "{url}"
)

// DeliveryObserver recebe cada tentativa de entrega (métricas)
type DeliveryObserver interface {
	DeliveryAttempted(method, outcome string)
	ObserveDownstream(method string, duration time.Duration)
}

type Forwarder interface {
	Forward(ctx context.Context, targetURL string, payload any) domain.DeliveryResult
}

// strategy é um passo da cadeia de entrega. Um erro faz a cadeia seguir para o próximo passo.
type strategy struct {
	method  string
	relay   string
	attempt func(ctx context.Context, targetURL string, body jsoniter.RawMessage) (*domain.DeliveryResult, error)
}

type WebhookIntegrator struct {
	client       webhookclient.Client
	observer     DeliveryObserver
	verifyDirect bool
	strategies   []strategy
}

func New(cfg *config.Config, client webhookclient.Client, observer DeliveryObserver) (*WebhookIntegrator, error) {
	relays, err := cfg.Webhook.ParsedRelays()
	if err != nil {
		return nil, err
	}

	s := &WebhookIntegrator{
		client:       client,
		observer:     observer,
		verifyDirect: cfg.Webhook.VerifyDirect,
	}

	s.strategies = append(s.strategies, strategy{method: domain.DeliveryMethodDirect, attempt: s.direct})
	for _, relay := range relays {
		s.strategies = append(s.strategies, strategy{
			method:  domain.DeliveryMethodRelay,
			relay:   relay.Name,
			attempt: s.viaRelay(relay),
		})
	}
	s.strategies = append(s.strategies, strategy{method: domain.DeliveryMethodForm, attempt: s.form})

	logrus.WithFields(logrus.Fields{
		"relays":        len(relays),
		"verify_direct": s.verifyDirect,
	}).Info("Cadeia de entrega de webhook configurada")

	return s, nil
}

// Forward tenta entregar o payload percorrendo a cadeia direto, relays e formulário,
// parando no primeiro sucesso. Nunca entra em pânico nem retorna erro: falhas viram
// um DeliveryResult com Success false.
func (s *WebhookIntegrator) Forward(ctx context.Context, targetURL string, payload any) (result domain.DeliveryResult) {
	deliveryID, err := utils.GenerateID()
	if err != nil {
		deliveryID = "unknown"
	}

	logger := logrus.WithFields(logrus.Fields{
		"delivery_id": deliveryID,
		"target":      targetURL,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Pânico durante a entrega do webhook")
			result = failedResult(deliveryID, fmt.Sprint(r))
		}
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("Erro ao serializar payload do webhook")
		return failedResult(deliveryID, err.Error())
	}

	for _, step := range s.strategies {
		stepLogger := logger.WithFields(logrus.Fields{
			"method": step.method,
			"relay":  step.relay,
		})
		stepLogger.Debug("Tentando entrega")

		started := time.Now()
		attempt, err := step.attempt(ctx, targetURL, body)
		s.observeDuration(step.method, time.Since(started))

		if err != nil {
			stepLogger.WithError(err).Warn("Tentativa de entrega falhou")
			s.observeAttempt(step.method, domain.DeliveryFailed)
			continue
		}

		attempt.DeliveryID = deliveryID
		s.observeAttempt(step.method, attempt.Outcome)
		stepLogger.WithField("outcome", attempt.Outcome).Info("Webhook entregue")

		return *attempt
	}

	logger.Error("Nenhum método de entrega funcionou")

	return failedResult(deliveryID, allMethodsFailedMessage)
}

func (s *WebhookIntegrator) direct(ctx context.Context, targetURL string, body jsoniter.RawMessage) (*domain.DeliveryResult, error) {
	resp, err := s.client.PostJSON(ctx, targetURL, body)
	if err != nil {
		return nil, err
	}

	outcome := domain.DeliveryUnverified
	if s.verifyDirect {
		if !isSuccess(resp.StatusCode) {
			return nil, fmt.Errorf("destino respondeu com status %d", resp.StatusCode)
		}
		outcome = domain.DeliveryConfirmed
	}

	return &domain.DeliveryResult{
		Success: true,
		Method:  domain.DeliveryMethodDirect,
		Outcome: outcome,
	}, nil
}

func (s *WebhookIntegrator) viaRelay(relay config.Relay) func(context.Context, string, jsoniter.RawMessage) (*domain.DeliveryResult, error) {
	return func(ctx context.Context, targetURL string, body jsoniter.RawMessage) (*domain.DeliveryResult, error) {
		resp, err := s.client.PostJSON(ctx, RelayURL(relay.Template, targetURL), body)
		if err != nil {
			return nil, err
		}

		if !isSuccess(resp.StatusCode) {
			return nil, fmt.Errorf("relay %s respondeu com status %d", relay.Name, resp.StatusCode)
		}

		return &domain.DeliveryResult{
			Success:  true,
			Method:   domain.DeliveryMethodRelay,
			Outcome:  domain.DeliveryConfirmed,
			Relay:    relay.Name,
			Response: string(resp.Body),
		}, nil
	}
}

func (s *WebhookIntegrator) form(ctx context.Context, targetURL string, body jsoniter.RawMessage) (*domain.DeliveryResult, error) {
	values := url.Values{}
	values.Set(formFieldName, string(body))

	if _, err := s.client.PostForm(ctx, targetURL, values); err != nil {
		return nil, err
	}

	return &domain.DeliveryResult{
		Success: true,
		Method:  domain.DeliveryMethodForm,
		Outcome: domain.DeliveryUnverified,
	}, nil
}

// RelayURL monta a URL do relay com o destino codificado no lugar de {url}
func RelayURL(template, targetURL string) string {
	return strings.ReplaceAll(template, urlPlaceholder, url.QueryEscape(targetURL))
}

func (s *WebhookIntegrator) observeAttempt(method string, outcome domain.DeliveryOutcome) {
	if s.observer != nil {
		s.observer.DeliveryAttempted(method, string(outcome))
	}
}

func (s *WebhookIntegrator) observeDuration(method string, duration time.Duration) {
	if s.observer != nil {
		s.observer.ObserveDownstream(method, duration)
	}
}

func failedResult(deliveryID, message string) domain.DeliveryResult {
	return domain.DeliveryResult{
		DeliveryID: deliveryID,
		Success:    false,
		Outcome:    domain.DeliveryFailed,
		Error:      message,
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
