package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature_Valid(t *testing.T) {
	sig := signPayload("order_abc", "pay_xyz", "s3cret")
	assert.True(t, VerifyPaymentSignature("order_abc", "pay_xyz", sig, "s3cret"))
}

func TestVerifyPaymentSignature_UppercaseHex(t *testing.T) {
	sig := strings.ToUpper(signPayload("order_abc", "pay_xyz", "s3cret"))
	assert.True(t, VerifyPaymentSignature("order_abc", "pay_xyz", sig, "s3cret"))
}

func TestVerifyPaymentSignature_Tampered(t *testing.T) {
	sig := signPayload("order_abc", "pay_xyz", "s3cret")

	assert.False(t, VerifyPaymentSignature("order_abc", "pay_other", sig, "s3cret"))
	assert.False(t, VerifyPaymentSignature("order_other", "pay_xyz", sig, "s3cret"))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", sig, "wrong-secret"))
}

func TestVerifyPaymentSignature_EmptyInputs(t *testing.T) {
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", "", "s3cret"))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", "deadbeef", ""))
}
