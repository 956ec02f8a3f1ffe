package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskhive/config"
	"taskhive/models"
	"taskhive/utils"
)

// Protected authenticates the request and stores the resolved user under
// c.Locals("user"). Credentials come from the Authorization header when
// present, otherwise from the access_token cookie set by the OAuth flow.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")
		if header := c.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return unauthorized(c, "Invalid authorization format")
			}
			token = parts[1]
		}
		if token == "" {
			return unauthorized(c, "Authorization required")
		}

		claims, err := utils.ParseJWTToken(token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		var user models.User
		if err := config.DB.First(&user, claims.UserID).Error; err != nil {
			return unauthorized(c, "User not found")
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is not active",
			})
		}
		// Tokens minted before the last logout carry a stale version
		if claims.TokenVersion != user.TokenVersion {
			return unauthorized(c, "Invalid token version")
		}

		c.Locals("user", &user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
