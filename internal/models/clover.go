package models

// CloverCard carries raw card details for a single charge call. It must
// never be logged or persisted; the payment client drops it as soon as the
// provider call returns.
type CloverCard struct {
	Number   string `json:"number" validate:"required"`
	ExpMonth string `json:"exp_month" validate:"required"`
	ExpYear  string `json:"exp_year" validate:"required"`
	CVV      string `json:"cvv" validate:"required"`
}

type CloverBilling struct {
	Name string `json:"name,omitempty"`
	Zip  string `json:"zip,omitempty"`
}

// CloverChargeRequest is the wire payload for a charge. Amount is in the
// provider's minor unit (cents) and must be converted exactly by the caller.
type CloverChargeRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Source   CloverCard        `json:"source"`
	Billing  *CloverBilling    `json:"billing,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type CloverChargeResult struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId,omitempty"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Created   int64  `json:"created"`
	Error     string `json:"error,omitempty"`
}

type CloverPaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type CloverRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Created   int64  `json:"created"`
}

type CredentialCheck struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// CloverWebhookEvent is the parsed body of a provider webhook delivery,
// accepted only after its signature verifies.
type CloverWebhookEvent struct {
	Type      string `json:"type"`
	PaymentID string `json:"paymentId"`
	BookingID string `json:"bookingId,omitempty"`
	Created   int64  `json:"created"`
}

// PaymentRequest is the body of POST /api/create-clover-payment. Amount is
// in cents exactly as the client computed it; when BookingID is set the
// amount is overridden by the booking's stored total.
type PaymentRequest struct {
	Amount         int64          `json:"amount" validate:"required,gt=0"`
	Currency       string         `json:"currency"`
	Card           *CloverCard    `json:"card" validate:"required"`
	Billing        *CloverBilling `json:"billing"`
	BookingID      string         `json:"bookingId"`
	Test           bool           `json:"test"`
	IdempotencyKey string         `json:"idempotencyKey"`
}

type PaymentResponse struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId,omitempty"`
	Error     string `json:"error,omitempty"`
}
