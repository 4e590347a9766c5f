package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health reports whether the server is up and the database answers.
func Health(db pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:  "UNAVAILABLE",
				Message: "Database unreachable: " + err.Error(),
			})
		}
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "OK",
			Message: "Server is running",
		})
	}
}
