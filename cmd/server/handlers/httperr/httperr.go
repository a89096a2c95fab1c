package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// E represents an HTTP error with status code and message
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"message" example:"Bad Request"`
}

// Error implements the error interface
func (e E) Error() string {
	return e.Message
}

// JSON returns the error as JSON response
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail returns the error for Fiber's global error handler to process
func Fail(err E) error {
	return err
}

// InvalidInput wraps a validation error and returns the standard response.
func InvalidInput(err error) error {
	return Fail(E{
		Status:  400,
		Message: "Invalid input: " + err.Error(),
	})
}

// Pre-defined HTTP errors. Messages mirror the public API contract.
var (
	ErrBadRequest       = E{Status: 400, Message: "Bad Request"}
	ErrEmailRegistered  = E{Status: 400, Message: "Email already registered"}
	ErrTokenNotProvided = E{Status: 401, Message: "Unauthorized: Token not provided"}
	ErrInvalidToken     = E{Status: 401, Message: "Unauthorized: Invalid token"}
	ErrBadCredentials   = E{Status: 401, Message: "Invalid email or password"}
	ErrUserNotFound     = E{Status: 404, Message: "User not found"}
	ErrInternal         = E{Status: 500, Message: "Internal server error"}
)

// Handler is the global error handler for Fiber. Anything that is not a typed
// E or a fiber.Error collapses to a generic 500 so internal detail never
// reaches the client.
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(E{
			Status:  fiberError.Code,
			Message: fiberError.Message,
		})
	}

	return ErrInternal.JSON(c)
}
