package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	mw "github.com/labstack/echo/v4/middleware"

	"winsbygroup.com/custbook/internal/version"
)

// Context key
type requestIDKey struct{}

// RequestID tags every request with an X-Request-ID, reusing the caller's
// value when one is sent, and adds it to the request context.
func RequestID() echo.MiddlewareFunc {
	return mw.RequestIDWithConfig(mw.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := context.WithValue(c.Request().Context(), requestIDKey{}, id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

// GetRequestID retrieves the request id from context. Empty if not set.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Version adds the X-Custbook-Version response header.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Custbook-Version", version.Version)
			return next(c)
		}
	}
}
