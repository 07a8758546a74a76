package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserContextMiddleware extracts the identity set by the Gateway. The gateway
// verifies sessions, roles and OTP challenges; this service trusts the
// forwarded headers without re-verifying credentials.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")
		otpVerifiedStr := c.Get("X-Otp-Verified")

		if userIDStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil || userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid X-User-ID",
			})
		}

		var roles []string
		for _, r := range strings.Split(rolesStr, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("user_id", uint(userID))
		c.Locals("user_roles", roles)
		c.Locals("otp_verified", strings.EqualFold(otpVerifiedStr, "true"))

		zap.L().Debug("user context",
			zap.Uint64("user_id", userID),
			zap.Strings("roles", roles),
			zap.String("path", c.Path()))

		return c.Next()
	}
}

// AdminRequired gates admin routes on the roles forwarded by the gateway.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
