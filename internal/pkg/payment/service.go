package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/gateway"
)

// Gateway is the remote payment processor surface the service depends on.
// The concrete REST client satisfies it; tests substitute fakes.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string, notes map[string]string) (*gateway.Order, error)
	FetchPayment(ctx context.Context, gatewayPaymentID string) (*gateway.RemotePayment, error)
}

// Service reconciles gateway payment state into local Payment and
// UserApplication records. The gateway client is constructed once at process
// start and injected here.
type Service struct {
	payments         repository.PaymentRepository
	userApplications repository.UserApplicationRepository
	gw               Gateway
	keySecret        string
}

// NewService creates a payment service from injected dependencies.
func NewService(
	payments repository.PaymentRepository,
	userApplications repository.UserApplicationRepository,
	gw Gateway,
	keySecret string,
) *Service {
	return &Service{
		payments:         payments,
		userApplications: userApplications,
		gw:               gw,
		keySecret:        keySecret,
	}
}

// OrderResult is what CreateOrder hands back to the checkout frontend.
type OrderResult struct {
	Payment *models.Payment `json:"payment"`
	Order   *gateway.Order  `json:"order"`
}

// CreateOrder creates a remote gateway order for an owned submission and
// persists the matching local pending Payment. The submission id travels in
// the metadata blob; there is no payment_id foreign key until verification.
func (s *Service) CreateOrder(ctx context.Context, userID, userApplicationID uint, amount decimal.Decimal, currency string) (*OrderResult, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewBadRequest("Amount must be greater than zero")
	}
	if currency == "" {
		currency = "INR"
	}

	userApplication, err := s.userApplications.GetDetailByIDAndUser(userApplicationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("User application not found")
		}
		return nil, err
	}

	alreadyPaid, err := s.payments.CompletedExistsForUserApplication(userApplicationID)
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return nil, apperror.NewBadRequest("Payment already completed for this application")
	}

	title := ""
	if userApplication.Application != nil {
		title = userApplication.Application.Title
	}

	receipt := fmt.Sprintf("receipt_%d_%d", userApplicationID, time.Now().UnixMilli())
	order, err := s.gw.CreateOrder(ctx, gateway.MinorUnits(amount), currency, receipt, map[string]string{
		"user_application_id": fmt.Sprintf("%d", userApplicationID),
		"application_title":   title,
	})
	if err != nil {
		log.Printf("failed to create gateway order: %v", err)
		return nil, apperror.NewInternal("Failed to create payment order")
	}

	payment := &models.Payment{
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		Status:         models.PAYMENT_STATUS_PENDING,
		PaymentGateway: models.PAYMENT_GATEWAY_RAZORPAY,
		GatewayOrderID: order.ID,
		Description:    fmt.Sprintf("Payment for %s", title),
	}
	if err := payment.SetMetadata(models.PaymentMetadata{
		UserApplicationID: userApplicationID,
		GatewayOrderID:    order.ID,
	}); err != nil {
		return nil, err
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	return &OrderResult{Payment: payment, Order: order}, nil
}

// Verify validates the checkout signature and reconciles the authoritative
// gateway state into the local records. The payment completes only when the
// signature matches AND the gateway reports the payment as captured; any
// other outcome marks it failed.
func (s *Service) Verify(ctx context.Context, userID, paymentID uint, gatewayPaymentID, gatewayOrderID, signature string) (*models.Payment, error) {
	payment, err := s.payments.GetPendingByIDAndUser(paymentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Payment not found or already processed")
		}
		return nil, err
	}

	if !gateway.VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature, s.keySecret) {
		s.markFailed(payment)
		return nil, apperror.NewBadRequest("Invalid payment signature")
	}

	remote, err := s.gw.FetchPayment(ctx, gatewayPaymentID)
	if err != nil {
		log.Printf("payment verification failed: %v", err)
		s.markFailed(payment)
		return nil, apperror.NewBadRequest("Payment verification failed")
	}

	if remote.Status != gateway.PaymentStatusCaptured {
		s.markFailed(payment)
		return nil, apperror.NewBadRequest("Payment not captured")
	}

	now := time.Now()
	payment.Status = models.PAYMENT_STATUS_COMPLETED
	payment.GatewayPaymentID = gatewayPaymentID
	payment.GatewaySignature = signature
	payment.PaidAt = &now

	meta, err := payment.GetMetadata()
	if err != nil {
		log.Printf("failed to decode payment metadata for payment %d: %v", payment.ID, err)
	}

	if err := s.payments.MarkCompleted(payment, meta.UserApplicationID); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *Service) markFailed(payment *models.Payment) {
	payment.Status = models.PAYMENT_STATUS_FAILED
	if err := s.payments.Update(payment); err != nil {
		log.Printf("failed to mark payment %d as failed: %v", payment.ID, err)
	}
}
