package handlerutil

import (
	"errors"

	"user-vault/cmd/server/handlers/httperr"
	"user-vault/internal/logger"
	"user-vault/internal/services/users"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractUserIDParam extracts and validates the target user id from the URL
// parameter. A missing or non-ObjectID value reads as an absent record, so it
// maps to 404 rather than leaking driver-level cast errors.
func ExtractUserIDParam(c *fiber.Ctx, handlerName string) (bson.ObjectID, error) {
	idStr := c.Params("id")
	if idStr == "" {
		logger.L().Warn("missing user ID parameter", "handler", handlerName, "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUserNotFound)
	}

	id, err := bson.ObjectIDFromHex(idStr)
	if err != nil {
		logger.L().Warn("invalid user ID parameter", "handler", handlerName, "idStr", idStr, "error", err)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUserNotFound)
	}

	return id, nil
}

// HandleServiceError maps service errors to the API responses: unknown id to
// 404, anything else to a generic 500. The cause stays in the server log only.
func HandleServiceError(err error, handlerName string, id bson.ObjectID) error {
	if errors.Is(err, users.ErrUserNotFound) {
		logger.L().Info("user not found", "handler", handlerName, "user_id", id.Hex())
		return httperr.Fail(httperr.ErrUserNotFound)
	}

	logger.L().Error("service operation failed", "handler", handlerName, "user_id", id.Hex(), "error", err)
	return httperr.Fail(httperr.ErrInternal)
}
