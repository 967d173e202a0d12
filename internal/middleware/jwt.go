package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the subject and
// role claims in the request context under "user_id" (int64) and
// "role" (string). Protected routes wrap themselves with this; public
// routes skip it.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "jeton d'authentification manquant",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			userID, role, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "jeton invalide ou expiré",
				})
			}
			c.Set("user_id", userID)
			c.Set("role", role)
			return next(c)
		}
	}
}
