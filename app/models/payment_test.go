package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMetadataRoundTrip(t *testing.T) {
	payment := &Payment{}
	require.NoError(t, payment.SetMetadata(PaymentMetadata{
		UserApplicationID: 42,
		GatewayOrderID:    "order_123",
	}))

	meta, err := payment.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, uint(42), meta.UserApplicationID)
	assert.Equal(t, "order_123", meta.GatewayOrderID)
}

func TestPaymentGetMetadata_Empty(t *testing.T) {
	payment := &Payment{}
	meta, err := payment.GetMetadata()
	require.NoError(t, err)
	assert.Zero(t, meta.UserApplicationID)
}

func TestPaymentIsPending(t *testing.T) {
	payment := Payment{Status: PAYMENT_STATUS_PENDING}
	assert.True(t, payment.IsPending())

	payment.Status = PAYMENT_STATUS_COMPLETED
	assert.False(t, payment.IsPending())
}

func TestApplicationRequiresPayment(t *testing.T) {
	app := Application{}
	assert.False(t, app.RequiresPayment())

	zero := decimal.Zero
	app.ProcessingFee = &zero
	assert.False(t, app.RequiresPayment())

	fee := decimal.NewFromFloat(99.00)
	app.ProcessingFee = &fee
	assert.True(t, app.RequiresPayment())
}
