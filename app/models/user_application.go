package models

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SUBMISSION_STATUS_PENDING     = "pending"
	SUBMISSION_STATUS_IN_PROGRESS = "inProgress"
	SUBMISSION_STATUS_COMPLETED   = "completed"
	SUBMISSION_STATUS_REJECTED    = "rejected"

	SUBMISSION_TYPE_FORM     = "form"
	SUBMISSION_TYPE_DOCUMENT = "document"
)

// UserApplication is one user's submission against a catalog Application.
// The (UserID, ApplicationID) pair is unique, backed by a composite index so
// concurrent duplicate submissions surface as a constraint violation.
type UserApplication struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"uniqueIndex:idx_user_application;index" json:"user_id"`
	ApplicationID   uint             `gorm:"uniqueIndex:idx_user_application;index" json:"application_id"`
	Status          string           `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	SubmissionType  string           `gorm:"type:varchar(20)" json:"submission_type"`
	FormData        json.RawMessage  `gorm:"type:json" json:"form_data,omitempty"`
	PaymentID       *uint            `gorm:"default:null;index" json:"payment_id"`
	AmountPaid      *decimal.Decimal `gorm:"type:decimal(10,2);default:null" json:"amount_paid"`
	TrackingNumber  string           `gorm:"type:varchar(40);uniqueIndex" json:"tracking_number"`
	SubmittedAt     time.Time        `gorm:"autoCreateTime;index" json:"submitted_at"`
	CompletedAt     *time.Time       `gorm:"type:timestamp;default:null" json:"completed_at"`
	RejectedAt      *time.Time       `gorm:"type:timestamp;default:null" json:"rejected_at"`
	RejectionReason string           `gorm:"type:text" json:"rejection_reason"`
	AdminNotes      string           `gorm:"type:text" json:"admin_notes"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Payment     *Payment     `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	Documents   []Document   `gorm:"foreignKey:UserApplicationID" json:"documents,omitempty"`
}

// BeforeCreate assigns the tracking number once at creation time.
func (ua *UserApplication) BeforeCreate(tx *gorm.DB) error {
	if ua.TrackingNumber != "" {
		return nil
	}
	number, err := GenerateTrackingNumber()
	if err != nil {
		return err
	}
	ua.TrackingNumber = number
	return nil
}

// IsPending reports whether the owner may still edit or delete the submission.
func (ua *UserApplication) IsPending() bool {
	return ua.Status == SUBMISSION_STATUS_PENDING
}

// IsValidSubmissionStatus reports whether s is one of the four lifecycle states.
func IsValidSubmissionStatus(s string) bool {
	switch s {
	case SUBMISSION_STATUS_PENDING, SUBMISSION_STATUS_IN_PROGRESS,
		SUBMISSION_STATUS_COMPLETED, SUBMISSION_STATUS_REJECTED:
		return true
	}
	return false
}

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingNumber builds a human-facing tracking code of the form
// TRK-<base36 unix millis>-<5 random base36 chars>. The suffix comes from
// crypto/rand with rejection sampling to avoid modulo bias.
func GenerateTrackingNumber() (string, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	// 252 is the largest multiple of 36 below 256.
	const maxRandomByte = 252
	const suffixLen = 5

	suffix := make([]byte, suffixLen)
	buf := make([]byte, suffixLen*2)
	written := 0

	for written < suffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			suffix[written] = trackingAlphabet[int(b)%len(trackingAlphabet)]
			written++
			if written == suffixLen {
				break
			}
		}
	}

	return strings.ToUpper(fmt.Sprintf("TRK-%s-%s", timestamp, suffix)), nil
}
