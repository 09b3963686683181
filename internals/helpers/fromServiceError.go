package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"yogacenter_backend/internals/helpers/apperr"
)

// FromServiceError mengubah error dari service (apperr.Error / *fiber.Error)
// menjadi response JSON konsisten. Selain itu fallback ke 500.
func FromServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := apperr.As(err); ok {
		if e.Kind == apperr.KindValidation && e.Field != "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Success:   false,
				Message:   e.Error(),
				ErrorCode: string(e.Kind),
				Errors:    map[string][]string{e.Field: {e.Error()}},
			})
		}
		return JsonErrorCode(c, apperr.StatusCode(e.Kind), string(e.Kind), e.Error())
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
