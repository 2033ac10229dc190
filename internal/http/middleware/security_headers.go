package middleware

import (
	"github.com/labstack/echo/v4"
)

// apiSecurityHeaders suit a JSON API that never serves documents.
var apiSecurityHeaders = map[string]string{
	"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Referrer-Policy":           "no-referrer",
	"Cache-Control":             "no-store",
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			for name, value := range apiSecurityHeaders {
				header.Set(name, value)
			}
			header.Del(echo.HeaderServer)
			return next(c)
		}
	}
}
