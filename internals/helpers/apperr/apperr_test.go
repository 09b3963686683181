package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindAndEntity(t *testing.T) {
	err := NotFound("class")

	assert.True(t, errors.Is(err, ErrClassNotFound))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(err, ErrPaymentNotFound))
	assert.False(t, errors.Is(err, ErrCapacityExceeded))
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("reserve: %w", ErrCapacityExceeded)

	assert.True(t, errors.Is(err, ErrCapacityExceeded))

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, KindCapacityExceeded, e.Kind)
}

func TestValidationFieldMatch(t *testing.T) {
	err := Validation("amount", "amount must be >= 0")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, &Error{Kind: KindValidation, Field: "amount"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindValidation, Field: "method"}))
	assert.Equal(t, "amount must be >= 0", err.Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusCode(KindNotFound))
	assert.Equal(t, fiber.StatusConflict, StatusCode(KindCapacityExceeded))
	assert.Equal(t, fiber.StatusConflict, StatusCode(KindDuplicateActiveReservation))
	assert.Equal(t, fiber.StatusConflict, StatusCode(KindInvalidStateTransition))
	assert.Equal(t, fiber.StatusUnprocessableEntity, StatusCode(KindValidation))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(Kind("other")))
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "payment not found", ErrPaymentNotFound.Error())
	assert.Equal(t, "class is full", ErrCapacityExceeded.Error())
	assert.Contains(t, InvalidTransition("reservation", "cancelled", "completed").Error(), "cancelled")
}
