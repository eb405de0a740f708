package middleware

import (
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles admits a request whose role claim is one of roles. Subjects
// listed in ADMIN_USER_IDS count as admins regardless of their claim.
func RequireRoles(cfg *config.Config, roles ...string) fiber.Handler {
	adminUserIDs := parseCSV(cfg.AdminUserIDs)
	allowsAdmin := slices.Contains(roles, identity.RoleAdmin)

	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if slices.Contains(roles, identity.GetRole(c)) {
			return c.Next()
		}
		if allowsAdmin && slices.Contains(adminUserIDs, userID.String()) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role: requires " + strings.Join(roles, " or "),
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
