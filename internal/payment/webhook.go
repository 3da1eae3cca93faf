package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"tour-booking/internal/models"
)

// ErrSignature means a webhook delivery failed verification and must be
// rejected without processing.
var ErrSignature = errors.New("webhook signature verification failed")

// WebhookError separates what the provider's retry loop may see from the
// detail that belongs in the security log.
type WebhookError struct {
	Status   int
	Message  string
	Internal string
	err      error
}

func (e *WebhookError) Error() string {
	if e.Internal != "" {
		return e.Message + ": " + e.Internal
	}
	return e.Message
}

func (e *WebhookError) Unwrap() error { return e.err }

func signatureError(internal string) *WebhookError {
	return &WebhookError{
		Status:   http.StatusBadRequest,
		Message:  "Invalid webhook signature",
		Internal: internal,
		err:      ErrSignature,
	}
}

// SignWebhookPayload computes the hex HMAC-SHA256 of the payload under the
// merchant's API token. Exposed so tests and the provider simulator can
// produce valid deliveries.
func SignWebhookPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks the delivery signature in constant time.
func VerifyWebhookSignature(payload []byte, signature, secret string) error {
	if secret == "" {
		return signatureError("no API token configured")
	}
	if signature == "" {
		return signatureError("missing signature header")
	}

	expected := SignWebhookPayload(payload, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return signatureError("signature mismatch")
	}
	return nil
}

// ParseWebhookEvent verifies and decodes a webhook delivery.
func ParseWebhookEvent(payload []byte, signature, secret string) (*models.CloverWebhookEvent, error) {
	if err := VerifyWebhookSignature(payload, signature, secret); err != nil {
		return nil, err
	}

	var event models.CloverWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, &WebhookError{
			Status:   http.StatusBadRequest,
			Message:  "Invalid webhook payload",
			Internal: err.Error(),
		}
	}
	if event.Type == "" {
		return nil, &WebhookError{
			Status:   http.StatusBadRequest,
			Message:  "Invalid webhook payload",
			Internal: "event has no type",
		}
	}
	return &event, nil
}
