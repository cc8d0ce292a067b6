package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/forwarding"
)

const (
	EndpointSendToClay        = "send-to-clay"
	EndpointActivateCompanies = "activate-companies"
	EndpointForwardWebhook    = "forward-webhook"

	invalidBodyMessage = "Invalid JSON body"
)

// ProxyObserver conta as respostas do proxy (métricas)
type ProxyObserver interface {
	ProxyRequest(endpoint string, status int)
}

func SendToClay(service forwarding.ForwardingService, observer ProxyObserver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.SendToClayRequest
		if err := decodeProxyBody(r, &req); err != nil {
			logrus.WithError(err).Warn("Corpo inválido em send-to-clay")
			respondProxyError(w, observer, EndpointSendToClay, http.StatusBadRequest, invalidBodyMessage)
			return
		}

		body, err := service.SendToClay(r.Context(), req)
		if err != nil {
			handleForwardingError(w, observer, EndpointSendToClay, err, "Failed to send data to Clay")
			return
		}

		respondProxy(w, observer, EndpointSendToClay, http.StatusOK, body)
	})
}

func ActivateCompanies(service forwarding.ForwardingService, observer ProxyObserver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ActivateCompaniesRequest
		if err := decodeProxyBody(r, &req); err != nil {
			logrus.WithError(err).Warn("Corpo inválido em activate-companies")
			respondProxyError(w, observer, EndpointActivateCompanies, http.StatusBadRequest, invalidBodyMessage)
			return
		}

		body, err := service.ActivateCompanies(r.Context(), req)
		if err != nil {
			handleForwardingError(w, observer, EndpointActivateCompanies, err, "Failed to activate companies")
			return
		}

		respondProxy(w, observer, EndpointActivateCompanies, http.StatusOK, body)
	})
}

// ForwardWebhook executa a cadeia de entrega e devolve o DeliveryResult
func ForwardWebhook(service forwarding.ForwardingService, observer ProxyObserver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.SendToClayRequest
		if err := decodeProxyBody(r, &req); err != nil {
			respondProxyError(w, observer, EndpointForwardWebhook, http.StatusBadRequest, invalidBodyMessage)
			return
		}

		result, err := service.ForwardWebhook(r.Context(), req)
		if err != nil {
			var fErr *forwarding.ForwardingError
			if errors.As(err, &fErr) && errors.Is(err, forwarding.ErrDeliveryFailed) {
				respondProxy(w, observer, EndpointForwardWebhook, fErr.Status, result)
				return
			}
			handleForwardingError(w, observer, EndpointForwardWebhook, err, "Failed to forward webhook")
			return
		}

		respondProxy(w, observer, EndpointForwardWebhook, http.StatusOK, result)
	})
}

// decodeProxyBody aceita corpo vazio como requisição sem campos,
// que então cai na validação de campos obrigatórios
func decodeProxyBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func handleForwardingError(w http.ResponseWriter, observer ProxyObserver, endpoint string, err error, fallback string) {
	var fErr *forwarding.ForwardingError
	if errors.As(err, &fErr) {
		respondProxyError(w, observer, endpoint, fErr.Status, fErr.Error())
		return
	}

	logrus.WithError(err).WithField("endpoint", endpoint).Error("Erro inesperado no proxy")
	respondProxyError(w, observer, endpoint, http.StatusInternalServerError, fallback)
}

func respondProxy(w http.ResponseWriter, observer ProxyObserver, endpoint string, status int, body any) {
	if observer != nil {
		observer.ProxyRequest(endpoint, status)
	}
	writeJSON(w, status, body)
}

func respondProxyError(w http.ResponseWriter, observer ProxyObserver, endpoint string, status int, message string) {
	if observer != nil {
		observer.ProxyRequest(endpoint, status)
	}
	writeProxyError(w, status, message)
}
