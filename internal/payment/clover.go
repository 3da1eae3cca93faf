package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tour-booking/internal/logger"
	"tour-booking/internal/models"
)

const (
	sandboxBaseURL    = "https://sandbox.dev.clover.com"
	productionBaseURL = "https://api.clover.com"

	// testCardNumber succeeds in sandbox mode; every other number declines.
	testCardNumber = "4111111111111111"
)

var (
	// ErrNotConfigured means no usable Clover credentials have been saved.
	ErrNotConfigured = errors.New("clover credentials are not configured")
	// ErrConnection wraps transport failures and non-2xx provider replies.
	ErrConnection = errors.New("clover request failed")
)

// Config is a snapshot of the Clover credentials taken from the settings
// row at call time. Clients are rebuilt per request so an admin credential
// change takes effect immediately.
type Config struct {
	AppID       string
	APIToken    string
	Environment models.CloverEnvironment
}

// ConfigFromSettings extracts a payment config from the settings row. The
// second return is false when payments cannot be attempted at all.
func ConfigFromSettings(s *models.Settings) (Config, bool) {
	if s == nil || s.CloverAPIToken == "" || s.CloverAppID == "" {
		return Config{}, false
	}
	env := s.CloverEnvironment
	if env == "" {
		env = models.CloverSandbox
	}
	return Config{
		AppID:       s.CloverAppID,
		APIToken:    s.CloverAPIToken,
		Environment: env,
	}, true
}

// Client talks to the Clover REST API. In sandbox mode charges are
// simulated locally so the storefront can be exercised without a merchant
// account; production mode performs live HTTP calls.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

type Option func(*Client)

// WithBaseURL overrides the provider endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each provider round trip. Zero keeps the default;
// callers treat an expired call as possibly-succeeded and reconcile via
// the webhook path.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(cfg Config, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}
	if cfg.Environment == models.CloverProduction {
		c.baseURL = productionBaseURL
	} else {
		c.baseURL = sandboxBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Environment() models.CloverEnvironment {
	return c.cfg.Environment
}

// DashboardURL is where the merchant reviews payments for the configured
// environment.
func (c *Client) DashboardURL() string {
	if c.cfg.Environment == models.CloverProduction {
		return productionBaseURL + "/dashboard"
	}
	return sandboxBaseURL + "/dashboard"
}

// ValidateCredentials performs a structural check only; it does not call
// the provider. TestConnection does the live round trip.
func (c *Client) ValidateCredentials() models.CredentialCheck {
	if c.cfg.APIToken == "" || c.cfg.AppID == "" {
		return models.CredentialCheck{Valid: false, Error: "API token and app ID are required"}
	}
	if len(c.cfg.APIToken) <= 10 {
		return models.CredentialCheck{Valid: false, Error: "API token appears invalid"}
	}
	if len(c.cfg.AppID) <= 5 {
		return models.CredentialCheck{Valid: false, Error: "App ID appears invalid"}
	}
	return models.CredentialCheck{Valid: true}
}

// CreatePayment charges a card. A decline is not an error: it comes back
// as a result with Success false so callers can distinguish "card said no"
// from "provider unreachable".
func (c *Client) CreatePayment(ctx context.Context, req models.CloverChargeRequest, idempotencyKey string) (*models.CloverChargeResult, error) {
	if check := c.ValidateCredentials(); !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, check.Error)
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	if c.cfg.Environment == models.CloverSandbox {
		return c.simulateCharge(req), nil
	}

	var result models.CloverChargeResult
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	if err := c.do(ctx, http.MethodPost, "/v1/charges", req, headers, &result); err != nil {
		return nil, err
	}
	c.log.LogPayment("CHARGE", result.PaymentID, fmt.Sprintf("Charged %d %s: %s", req.Amount, req.Currency, result.Status))
	return &result, nil
}

// simulateCharge mirrors the provider's sandbox behavior: the designated
// test card succeeds, everything else declines.
func (c *Client) simulateCharge(req models.CloverChargeRequest) *models.CloverChargeResult {
	if req.Source.Number == testCardNumber {
		id := "clv_sandbox_" + uuid.NewString()
		c.log.LogPayment("CHARGE", id, fmt.Sprintf("Sandbox charge succeeded for %d %s", req.Amount, req.Currency))
		return &models.CloverChargeResult{
			Success:   true,
			PaymentID: id,
			Status:    "succeeded",
			Amount:    req.Amount,
			Currency:  req.Currency,
			Created:   time.Now().Unix(),
		}
	}

	c.log.LogPayment("CHARGE", "", "Sandbox charge declined")
	return &models.CloverChargeResult{
		Success:  false,
		Status:   "failed",
		Amount:   req.Amount,
		Currency: req.Currency,
		Created:  time.Now().Unix(),
		Error:    "Card declined",
	}
}

// CreatePaymentIntent reserves an amount for a client-side confirmation
// flow. Sandbox mode fabricates the intent locally.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*models.CloverPaymentIntent, error) {
	if check := c.ValidateCredentials(); !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, check.Error)
	}
	if currency == "" {
		currency = "usd"
	}

	if c.cfg.Environment == models.CloverSandbox {
		id := "clv_intent_" + uuid.NewString()
		return &models.CloverPaymentIntent{
			ID:           id,
			ClientSecret: id + "_secret_" + uuid.NewString(),
			Amount:       amount,
			Currency:     currency,
			Status:       "requires_payment_method",
		}, nil
	}

	body := map[string]interface{}{"amount": amount, "currency": currency}
	var intent models.CloverPaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", body, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// RefundPayment reverses a prior charge in full.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount int64) (*models.CloverRefund, error) {
	if check := c.ValidateCredentials(); !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, check.Error)
	}

	if c.cfg.Environment == models.CloverSandbox {
		refund := &models.CloverRefund{
			ID:        "clv_refund_" + uuid.NewString(),
			PaymentID: paymentID,
			Amount:    amount,
			Status:    "succeeded",
			Created:   time.Now().Unix(),
		}
		c.log.LogPayment("REFUND", paymentID, fmt.Sprintf("Sandbox refund of %d", amount))
		return refund, nil
	}

	body := map[string]interface{}{"charge": paymentID, "amount": amount}
	var refund models.CloverRefund
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", body, nil, &refund); err != nil {
		return nil, err
	}
	c.log.LogPayment("REFUND", paymentID, fmt.Sprintf("Refunded %d: %s", amount, refund.Status))
	return &refund, nil
}

// GetPayment looks up a prior charge by its provider id. Sandbox ids are
// answered locally.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*models.CloverChargeResult, error) {
	if check := c.ValidateCredentials(); !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, check.Error)
	}

	if c.cfg.Environment == models.CloverSandbox {
		return &models.CloverChargeResult{
			Success:   true,
			PaymentID: paymentID,
			Status:    "succeeded",
			Currency:  "usd",
		}, nil
	}

	var result models.CloverChargeResult
	if err := c.do(ctx, http.MethodGet, "/v1/charges/"+paymentID, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestConnection performs a live authenticated round trip against the
// provider, surfacing the provider's status and body verbatim on failure.
func (c *Client) TestConnection(ctx context.Context) error {
	if check := c.ValidateCredentials(); !check.Valid {
		return fmt.Errorf("%w: %s", ErrNotConfigured, check.Error)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/merchants/current", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrConnection, resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers map[string]string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrConnection, resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: invalid response body: %v", ErrConnection, err)
		}
	}
	return nil
}
