package middleware

import (
	"errors"
	"log"
	"strings"

	"taskmanager/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that gates protected routes. It
// validates the bearer token and resolves its subject to a live user record;
// a token whose user has vanished is rejected the same as an invalid one.
// The resolved user id is stored in Locals("user_id") for handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := authService.GetUserByID(userID)
		if err != nil {
			if !errors.Is(err, services.ErrUserNotFound) {
				log.Printf("Error resolving token subject %s: %v", userID, err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized",
			})
		}

		c.Locals("user_id", user.ID)
		return c.Next()
	}
}
