package forwarding

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vfg2006/icp-dashboard-api/pkg/apiErrors"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrDownstreamStatus = errors.New("downstream responded with error status")
	ErrDownstreamFailed = errors.New("downstream request failed")
	ErrDeliveryFailed   = errors.New("webhook delivery failed")
)

const (
	sendToClayFailedMessage        = "Failed to send data to Clay"
	activateCompaniesFailedMessage = "Failed to activate companies"
)

// ForwardingError carrega o status HTTP e a mensagem que o proxy devolve ao chamador
type ForwardingError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Status  int    // Status HTTP da resposta do proxy
	Message string // Mensagem exposta no campo "error"
	Missing []string
}

func (e *ForwardingError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *ForwardingError) Unwrap() error {
	return e.Err
}

func newMissingFieldsError(missing []string) *ForwardingError {
	return &ForwardingError{
		Err:     ErrMissingFields,
		Code:    apiErrors.ErrMissingRequiredData,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		Missing: missing,
	}
}

func newDownstreamStatusError(status int, body []byte) *ForwardingError {
	return &ForwardingError{
		Err:     ErrDownstreamStatus,
		Code:    apiErrors.ErrExternalService,
		Status:  status,
		Message: string(body),
	}
}

func newDownstreamFailedError(message string) *ForwardingError {
	return &ForwardingError{
		Err:     ErrDownstreamFailed,
		Code:    apiErrors.ErrExternalService,
		Status:  http.StatusInternalServerError,
		Message: message,
	}
}
