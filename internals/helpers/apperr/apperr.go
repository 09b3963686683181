// Package apperr berisi jenis error domain booking & ledger.
// Service mengembalikan *Error, controller memetakannya ke HTTP status.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindNotFound                   Kind = "NOT_FOUND"
	KindCapacityExceeded           Kind = "CAPACITY_EXCEEDED"
	KindDuplicateActiveReservation Kind = "DUPLICATE_ACTIVE_RESERVATION"
	KindInvalidStateTransition     Kind = "INVALID_STATE_TRANSITION"
	KindValidation                 Kind = "VALIDATION_ERROR"
)

type Error struct {
	Kind    Kind
	Entity  string // NotFound: "class", "payment", ...
	Field   string // Validation
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found", e.Entity)
	case KindCapacityExceeded:
		return "class is full"
	case KindDuplicateActiveReservation:
		return "student already has an active reservation for this class"
	case KindInvalidStateTransition:
		return "invalid state transition"
	case KindValidation:
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return string(e.Kind)
}

// Is: cocok kalau Kind sama; Entity/Field ikut dicek hanya bila target mengisinya.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Entity != "" && t.Entity != e.Entity {
		return false
	}
	if t.Field != "" && t.Field != e.Field {
		return false
	}
	return true
}

var (
	ErrClassNotFound       = &Error{Kind: KindNotFound, Entity: "class"}
	ErrStudentNotFound     = &Error{Kind: KindNotFound, Entity: "student"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Entity: "user"}
	ErrCenterNotFound      = &Error{Kind: KindNotFound, Entity: "center"}
	ErrReservationNotFound = &Error{Kind: KindNotFound, Entity: "reservation"}
	ErrPaymentNotFound     = &Error{Kind: KindNotFound, Entity: "payment"}
	ErrAttendanceNotFound  = &Error{Kind: KindNotFound, Entity: "attendance"}

	ErrCapacityExceeded           = &Error{Kind: KindCapacityExceeded}
	ErrDuplicateActiveReservation = &Error{Kind: KindDuplicateActiveReservation}
	ErrInvalidStateTransition     = &Error{Kind: KindInvalidStateTransition}
	ErrValidation                 = &Error{Kind: KindValidation}
)

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func InvalidTransition(entity, from, to string) *Error {
	return &Error{
		Kind:    KindInvalidStateTransition,
		Entity:  entity,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

func StatusCode(k Kind) int {
	switch k {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindCapacityExceeded, KindDuplicateActiveReservation, KindInvalidStateTransition:
		return fiber.StatusConflict
	case KindValidation:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// As: shortcut errors.As untuk *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
