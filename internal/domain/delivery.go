package domain

// DeliveryOutcome distingue entregas confirmadas das que não podem ser verificadas
type DeliveryOutcome string

const (
	DeliveryConfirmed  DeliveryOutcome = "confirmed"
	DeliveryUnverified DeliveryOutcome = "unverified"
	DeliveryFailed     DeliveryOutcome = "failed"
)

const (
	DeliveryMethodDirect = "direct-no-cors"
	DeliveryMethodRelay  = "proxy"
	DeliveryMethodForm   = "form-no-cors"
)

type DeliveryResult struct {
	DeliveryID string          `json:"delivery_id,omitempty"`
	Success    bool            `json:"success"`
	Method     string          `json:"method,omitempty"`
	Outcome    DeliveryOutcome `json:"outcome"`
	Relay      string          `json:"relay,omitempty"`
	Response   string          `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// SendToClayRequest é o corpo de POST /api/send-to-clay e /api/forward-webhook
type SendToClayRequest struct {
	WebhookURL string `json:"webhookUrl"`
	Data       any    `json:"data"`
}

type ActivateCompaniesRequest struct {
	Companies   any `json:"companies"`
	ClayWebhook any `json:"clay_webhook"`
}

// DownstreamResponse é a resposta de um webhook de destino
type DownstreamResponse struct {
	StatusCode int
	Body       []byte
}
