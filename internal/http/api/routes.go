package api

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the customer API on g, normally /api/customers.
func RegisterRoutes(g *echo.Group, h *Handler) {

	// Customers
	g.GET("", h.GetCustomers)
	g.POST("", h.CreateCustomer)
	g.GET("/:id", h.GetCustomer)
	g.PUT("/:id", h.UpdateCustomer)
	g.DELETE("/:id", h.DeleteCustomer)

	// Addresses (static segments win over /:id)
	g.GET("/addresses/search", h.SearchAddresses)
	g.PUT("/addresses/:addressId", h.UpdateAddress)
	g.DELETE("/addresses/:addressId", h.DeleteAddress)
	g.GET("/:id/addresses", h.GetAddresses)
	g.POST("/:id/addresses", h.CreateAddress)
}
