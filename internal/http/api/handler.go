package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/custbook/internal/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Customers

func (h *Handler) GetCustomers(c echo.Context) error {
	var q ListCustomersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&q); err != nil {
		return respondError(c, err)
	}

	page, err := h.svc.ListCustomers(c.Request().Context(), &q)
	if err != nil {
		return respondError(c, err)
	}

	return Paginated(c, "Customers retrieved successfully", page.Items, Pagination{
		CurrentPage:  page.Page,
		TotalPages:   page.TotalPages(),
		TotalItems:   page.Total,
		ItemsPerPage: page.Limit,
	})
}

func (h *Handler) GetCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Customer retrieved successfully", out)
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	out, err := h.svc.CreateCustomer(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Customer created successfully", out)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	out, err := h.svc.UpdateCustomer(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Customer updated successfully", out)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteCustomer(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return Success(c, "Customer deleted successfully", map[string]int64{"id": id})
}

// Addresses

func (h *Handler) GetAddresses(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.GetAddresses(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Addresses retrieved successfully", out)
}

func (h *Handler) CreateAddress(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	out, err := h.svc.CreateAddress(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Address created successfully", out)
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	id, err := paramID(c, "addressId")
	if err != nil {
		return respondError(c, err)
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	out, err := h.svc.UpdateAddress(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Address updated successfully", out)
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	id, err := paramID(c, "addressId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteAddress(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return Success(c, "Address deleted successfully", map[string]int64{"id": id})
}

func (h *Handler) SearchAddresses(c echo.Context) error {
	var q SearchAddressesQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return respondError(c, err)
	}
	if err := c.Validate(&q); err != nil {
		return respondError(c, err)
	}

	out, err := h.svc.SearchAddresses(c.Request().Context(), &q)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, "Addresses retrieved successfully", out)
}

// paramID reads a positive integer path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, validation.NewError(name, name+" must be a positive integer")
	}
	return id, nil
}
