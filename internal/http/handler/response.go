package handler

import (
	"github.com/labstack/echo/v4"
)

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func respondItems[T any](c echo.Context, status int, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(status, map[string][]T{jsonKeyItems: items})
}
