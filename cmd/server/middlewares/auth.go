package middlewares

import (
	"strings"

	"user-vault/cmd/server/handlers/httperr"
	"user-vault/internal/config"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth returns the bearer-token gate:
//
//   - missing Authorization header -> 401 "Unauthorized: Token not provided"
//   - bad signature, malformed structure, or expired -> 401 "Unauthorized: Invalid token"
//   - otherwise the "user_id" claim lands in ctx.Locals("userID") and control
//     passes to the handler.
//
// The gate does not check that the user still exists; a token issued for a
// since-deleted account authenticates until it expires.
func Auth(cfg config.Config) fiber.Handler {
	ware := jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			// Token already verified at this point.
			token := c.Locals("user").(*jwt.Token)
			claims, _ := token.Claims.(jwt.MapClaims)

			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				return httperr.Fail(httperr.ErrInvalidToken)
			}

			c.Locals("userID", userID)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return httperr.Fail(httperr.ErrInvalidToken)
		},
	})

	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if raw == "" {
			return httperr.Fail(httperr.ErrTokenNotProvided)
		}

		// The Bearer prefix is optional on this API; jwtware insists on it.
		if !strings.HasPrefix(raw, "Bearer ") {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
		}

		return ware(c)
	}
}
