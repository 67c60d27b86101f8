package middleware

import (
	"errors"
	"strings"

	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/internal/token"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the locals key under which verified claims are stored.
const ClaimsKey = "claims"

// RequireAuth rejects requests without a valid bearer token. A missing
// header is unauthorized, a present but unverifiable token is a bad
// request. Verified claims land in c.Locals for the handlers.
func RequireAuth(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"msg":     "Access denied",
			})
		}

		claims, err := issuer.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"msg":     "Invalid token",
			})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin checks that the authenticated account exists in the
// admins table with the admin role. Must run after RequireAuth.
func RequireAdmin(repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*token.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"msg":     "Access denied",
			})
		}

		id, err := claims.SubjectID()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"msg":     "Invalid token",
			})
		}

		admin, err := repo.GetAdminByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrAdminNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"success": false,
					"msg":     "Access denied",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"msg":     "Internal server error",
			})
		}
		if admin.Role != model.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"msg":     "Access denied",
			})
		}

		return c.Next()
	}
}
