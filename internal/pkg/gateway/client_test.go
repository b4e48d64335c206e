package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(9900), MinorUnits(decimal.NewFromFloat(99.00)))
	assert.Equal(t, int64(9950), MinorUnits(decimal.NewFromFloat(99.50)))
	assert.Equal(t, int64(1), MinorUnits(decimal.NewFromFloat(0.01)))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(9900), payload["amount"])
		assert.Equal(t, "INR", payload["currency"])

		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   9900,
			Currency: "INR",
			Receipt:  "receipt_1_1",
			Status:   "created",
		})
	}))
	defer server.Close()

	client := &Client{KeyID: "key_id", KeySecret: "key_secret", APIBaseURL: server.URL}
	order, err := client.CreateOrder(context.Background(), 9900, "INR", "receipt_1_1", map[string]string{"user_application_id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(9900), order.Amount)
}

func TestCreateOrder_NotConfigured(t *testing.T) {
	client := &Client{}
	_, err := client.CreateOrder(context.Background(), 9900, "INR", "r", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/payments/pay_xyz", r.URL.Path)

		json.NewEncoder(w).Encode(RemotePayment{
			ID:      "pay_xyz",
			OrderID: "order_abc",
			Status:  PaymentStatusCaptured,
			Method:  "upi",
		})
	}))
	defer server.Close()

	client := &Client{KeyID: "key_id", KeySecret: "key_secret", APIBaseURL: server.URL}
	payment, err := client.FetchPayment(context.Background(), "pay_xyz")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusCaptured, payment.Status)
}

func TestFetchPayment_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"invalid id"}}`))
	}))
	defer server.Close()

	client := &Client{KeyID: "key_id", KeySecret: "key_secret", APIBaseURL: server.URL}
	_, err := client.FetchPayment(context.Background(), "pay_bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
}
