package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/schema"
)

// Every endpoint answers with the same envelope: success flag, then
// either data (with an optional message) or an error string.

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okMsg(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, echo.Map{"success": true, "data": data, "message": message})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func failValidation(c echo.Context, errs []schema.FieldError) error {
	return c.JSON(400, echo.Map{
		"success": false,
		"error":   "données invalides",
		"details": errs,
	})
}
