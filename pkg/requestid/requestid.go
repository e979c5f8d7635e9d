package requestid

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New returns exactly 32 lowercase hex characters (no separators/prefixes).
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Middleware sets X-Request-Id on every response, keeping a caller
// supplied value. echo's Logger picks it up as ${id}.
func Middleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: New,
	})
}

// Get returns the request id assigned by Middleware.
func Get(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
