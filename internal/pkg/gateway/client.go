package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OpenFormsApp/OpenForms/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.razorpay.com/v1"

// PaymentStatusCaptured is the only remote payment status treated as success.
const PaymentStatusCaptured = "captured"

var ErrNotConfigured = errors.New("gateway credentials are not configured")

// Client talks to the Razorpay-style orders/payments REST API using basic
// auth with a key id and secret. Construct once at process start and inject
// into the payment service.
type Client struct {
	KeyID      string
	KeySecret  string
	APIBaseURL string

	HTTPClient *http.Client
}

// Order is the remote order created before the client-side checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RemotePayment is the authoritative payment state fetched after checkout.
type RemotePayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
}

// NewClientFromEnv builds a gateway client from environment configuration.
func NewClientFromEnv() *Client {
	return &Client{
		KeyID:      strings.TrimSpace(env.GetEnv("GATEWAY_KEY_ID", "")),
		KeySecret:  strings.TrimSpace(env.GetEnv("GATEWAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("GATEWAY_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// MinorUnits converts a decimal major-unit amount into the gateway's integer
// minor units (×100, rounded).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder creates a remote order for the given minor-unit amount.
func (c *Client) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if c.KeyID == "" || c.KeySecret == "" {
		return nil, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	var order Order
	if err := c.do(req, &order); err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}
	return &order, nil
}

// FetchPayment fetches the authoritative payment state by gateway payment id.
func (c *Client) FetchPayment(ctx context.Context, gatewayPaymentID string) (*RemotePayment, error) {
	if c.KeyID == "" || c.KeySecret == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(gatewayPaymentID) == "" {
		return nil, errors.New("gateway payment id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/payments/"+gatewayPaymentID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	var payment RemotePayment
	if err := c.do(req, &payment); err != nil {
		return nil, fmt.Errorf("gateway payment fetch failed: %w", err)
	}
	return &payment, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return json.Unmarshal(raw, out)
}
