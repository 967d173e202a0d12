package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles recognized in the JWT "role" claim.
const (
	RoleAdmin       = "admin"
	RoleGerant      = "gerant"
	RoleUtilisateur = "utilisateur"
)

// RequireRole aborts with 403 unless the authenticated user's role is
// one of the given values. Assumes JWTAuth already ran and stored the
// role in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"error":   "accès refusé",
				})
			}
			return next(c)
		}
	}
}
