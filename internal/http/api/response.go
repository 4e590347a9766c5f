package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/custbook/internal/validation"
)

// Every /api/customers response is one of these envelopes.

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type PaginatedResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type ErrorResponse struct {
	Success    bool                    `json:"success"`
	Error      string                  `json:"error"`
	Details    []validation.FieldError `json:"details,omitempty"`
	StatusCode int                     `json:"statusCode"`
}

func Success(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Paginated(c echo.Context, message string, data any, p Pagination) error {
	return c.JSON(http.StatusOK, PaginatedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
	})
}

func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{
		Error:      message,
		StatusCode: status,
	})
}

func ValidationError(c echo.Context, details []validation.FieldError) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:      "Validation failed",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	})
}

func NotFound(c echo.Context, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, http.StatusNotFound, message)
}
