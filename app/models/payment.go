package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PAYMENT_STATUS_PENDING   = "pending"
	PAYMENT_STATUS_COMPLETED = "completed"
	PAYMENT_STATUS_FAILED    = "failed"
	PAYMENT_STATUS_REFUNDED  = "refunded"

	PAYMENT_GATEWAY_RAZORPAY = "razorpay"
	PAYMENT_GATEWAY_STRIPE   = "stripe"
	PAYMENT_GATEWAY_PAYPAL   = "paypal"
)

// Payment is one gateway transaction attempt. Until verification completes the
// only linkage to its UserApplication is the metadata blob written at order
// creation time.
type Payment struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"index" json:"user_id"`
	Amount           decimal.Decimal  `gorm:"type:decimal(10,2)" json:"amount"`
	Currency         string           `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status           string           `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentGateway   string           `gorm:"type:varchar(20);index" json:"payment_gateway"`
	GatewayOrderID   string           `gorm:"type:varchar(100);index" json:"gateway_order_id"`
	GatewayPaymentID string           `gorm:"type:varchar(100);index" json:"gateway_payment_id"`
	GatewaySignature string           `gorm:"type:varchar(255)" json:"-"`
	Description      string           `gorm:"type:varchar(255)" json:"description"`
	Metadata         json.RawMessage  `gorm:"type:json" json:"metadata,omitempty"`
	PaidAt           *time.Time       `gorm:"type:timestamp;default:null" json:"paid_at"`
	RefundedAt       *time.Time       `gorm:"type:timestamp;default:null" json:"refunded_at"`
	RefundAmount     *decimal.Decimal `gorm:"type:decimal(10,2);default:null" json:"refund_amount"`
	RefundReason     string           `gorm:"type:varchar(255)" json:"refund_reason"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// PaymentMetadata is the JSON shape stored in Payment.Metadata.
type PaymentMetadata struct {
	UserApplicationID uint   `json:"user_application_id"`
	GatewayOrderID    string `json:"gateway_order_id"`
}

// SetMetadata marshals and stores the metadata blob.
func (p *Payment) SetMetadata(meta PaymentMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	p.Metadata = raw
	return nil
}

// GetMetadata unmarshals the stored metadata blob. A missing blob yields the
// zero value, not an error.
func (p *Payment) GetMetadata() (PaymentMetadata, error) {
	var meta PaymentMetadata
	if len(p.Metadata) == 0 {
		return meta, nil
	}
	err := json.Unmarshal(p.Metadata, &meta)
	return meta, err
}

// IsPending reports whether the payment is still awaiting verification.
func (p *Payment) IsPending() bool {
	return p.Status == PAYMENT_STATUS_PENDING
}
