package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

type createOrderRequest struct {
	UserApplicationID uint            `json:"userApplicationId" validate:"required,min=1"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Currency          string          `json:"currency" validate:"omitempty,len=3"`
}

type verifyPaymentRequest struct {
	PaymentID        uint   `json:"paymentId" validate:"required,min=1"`
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	GatewaySignature string `json:"gatewaySignature" validate:"required"`
}

// HandleCreatePaymentOrder opens a gateway order for one of the caller's submissions.
func HandleCreatePaymentOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := paymentService.CreateOrder(c.Context(), usercontext.GetUserID(c),
		req.UserApplicationID, req.Amount, req.Currency)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, "Payment order created successfully", fiber.Map{
		"payment": result.Payment,
		"order":   result.Order,
	})
}

// HandleVerifyPayment checks the gateway signature and settles the payment.
func HandleVerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	payment, err := paymentService.Verify(c.Context(), usercontext.GetUserID(c), req.PaymentID,
		req.GatewayPaymentID, req.GatewayOrderID, req.GatewaySignature)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Payment verified successfully", fiber.Map{"payment": payment})
}

// HandlePaymentHistory lists the caller's payments.
func HandlePaymentHistory(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "createdAt")
	status := c.Query("status")

	repo := repository.GetGlobalFactory().GetPaymentRepository()
	payments, total, err := repo.ListByUser(usercontext.GetUserID(c), status, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"payments":   payments,
		"pagination": newPagination(page, opts, total),
	})
}

// HandleGetPayment returns one payment owned by the caller.
func HandleGetPayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetPaymentRepository()
	payment, err := repo.GetByIDAndUser(id, usercontext.GetUserID(c))
	if err != nil {
		return apperror.NewNotFound("Payment not found")
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"payment": payment})
}
