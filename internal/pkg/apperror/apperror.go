package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/internal/pkg/token"
)

// AppError is the single typed error all domain failures are raised as. It
// carries the HTTP status the central handler responds with.
type AppError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an AppError with an explicit status.
func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// NewValidation creates a 400 with field-level messages.
func NewValidation(message string, fields []FieldError) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message, Errors: fields}
}

// NewBadRequest creates a 400.
func NewBadRequest(message string) *AppError {
	return New(fiber.StatusBadRequest, message)
}

// NewUnauthorized creates a 401.
func NewUnauthorized(message string) *AppError {
	return New(fiber.StatusUnauthorized, message)
}

// NewForbidden creates a 403.
func NewForbidden(message string) *AppError {
	return New(fiber.StatusForbidden, message)
}

// NewNotFound creates a 404.
func NewNotFound(message string) *AppError {
	return New(fiber.StatusNotFound, message)
}

// NewConflict creates a 409.
func NewConflict(message string) *AppError {
	return New(fiber.StatusConflict, message)
}

// NewInternal creates a 500.
func NewInternal(message string) *AppError {
	return New(fiber.StatusInternalServerError, message)
}

// FromValidationErrors converts validator output into field-level messages.
func FromValidationErrors(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewBadRequest(err.Error())
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return NewValidation("Validation failed", fields)
}

// IsDuplicateEntry reports whether err is a MySQL duplicate-key violation.
// The unique (user_id, application_id) index surfaces concurrent duplicate
// submissions through this check.
func IsDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// gorm's mysql driver does not always translate; match the driver error.
	msg := err.Error()
	return strings.Contains(msg, "Error 1062") || strings.Contains(msg, "Duplicate entry")
}

// Translate maps store, validation and token library errors onto the taxonomy.
func Translate(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FromValidationErrors(verrs)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFound("Resource not found")
	case IsDuplicateEntry(err):
		return NewConflict("Resource already exists")
	case errors.Is(err, token.ErrExpiredToken):
		return NewUnauthorized("Token has expired")
	case errors.Is(err, token.ErrInvalidToken):
		return NewUnauthorized("Invalid token")
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return New(fiberErr.Code, fiberErr.Message)
	}

	return NewInternal("Something went wrong!")
}
