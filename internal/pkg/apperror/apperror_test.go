package apperror

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/internal/pkg/token"
)

func TestTranslate_AppErrorPassthrough(t *testing.T) {
	err := NewConflict("You have already submitted this application")
	assert.Same(t, err, Translate(err))
}

func TestTranslate_RecordNotFound(t *testing.T) {
	appErr := Translate(gorm.ErrRecordNotFound)
	assert.Equal(t, fiber.StatusNotFound, appErr.Status)
}

func TestTranslate_DuplicateEntry(t *testing.T) {
	appErr := Translate(errors.New("Error 1062 (23000): Duplicate entry '10-1' for key 'idx_user_application'"))
	assert.Equal(t, fiber.StatusConflict, appErr.Status)

	appErr = Translate(gorm.ErrDuplicatedKey)
	assert.Equal(t, fiber.StatusConflict, appErr.Status)
}

func TestTranslate_TokenErrors(t *testing.T) {
	appErr := Translate(token.ErrExpiredToken)
	assert.Equal(t, fiber.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Token has expired", appErr.Message)

	appErr = Translate(token.ErrInvalidToken)
	assert.Equal(t, fiber.StatusUnauthorized, appErr.Status)
}

func TestTranslate_FiberError(t *testing.T) {
	appErr := Translate(fiber.ErrMethodNotAllowed)
	assert.Equal(t, fiber.StatusMethodNotAllowed, appErr.Status)
}

func TestTranslate_UnknownError(t *testing.T) {
	appErr := Translate(errors.New("driver: bad connection"))
	assert.Equal(t, fiber.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Something went wrong!", appErr.Message)
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.False(t, IsDuplicateEntry(nil))
	assert.False(t, IsDuplicateEntry(errors.New("some other error")))
	assert.True(t, IsDuplicateEntry(errors.New("Duplicate entry 'x' for key 'y'")))
}
