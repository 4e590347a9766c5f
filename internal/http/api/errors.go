package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/custbook/internal/address"
	"winsbygroup.com/custbook/internal/customer"
	"winsbygroup.com/custbook/internal/middleware"
	"winsbygroup.com/custbook/internal/validation"
)

// sortParams maps customer.SortError params to their query names.
var sortParams = map[string]string{
	"column": "sortBy",
	"order":  "sortOrder",
}

// respondError writes err as an error envelope. Domain errors keep their
// meaning; anything unrecognized is a 500 carrying the error text.
func respondError(c echo.Context, err error) error {
	var (
		ve *validation.Error
		se *customer.SortError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return ValidationError(c, ve.Fields)
	case errors.Is(err, address.ErrNoFilter):
		return ValidationError(c, []validation.FieldError{{
			Field:   "filter",
			Message: err.Error(),
		}})
	case errors.As(err, &se):
		return ValidationError(c, []validation.FieldError{{
			Field:   sortParams[se.Param],
			Message: err.Error(),
		}})
	case errors.Is(err, customer.ErrNotFound):
		return NotFound(c, "Customer not found")
	case errors.Is(err, address.ErrNotFound):
		return NotFound(c, "Address not found")
	case errors.As(err, &he):
		return Error(c, he.Code, fmt.Sprint(he.Message))
	}

	req := c.Request()
	log.Printf("request %s: %s %s: %v", middleware.GetRequestID(req.Context()), req.Method, req.URL.Path, err)
	return Error(c, http.StatusInternalServerError, err.Error())
}

// ErrorHandler is the echo.HTTPErrorHandler for the whole server, so
// unknown routes and panics recovered by middleware share the envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		_ = c.NoContent(code)
		return
	}
	if werr := respondError(c, err); werr != nil {
		c.Logger().Error(werr)
	}
}
