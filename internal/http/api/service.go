package api

import (
	"context"

	"winsbygroup.com/custbook/internal/address"
	"winsbygroup.com/custbook/internal/customer"
)

type Service struct {
	customers *customer.Service
	addresses *address.Service
}

func NewService(c *customer.Service, a *address.Service) *Service {
	return &Service{
		customers: c,
		addresses: a,
	}
}

// -------------------------
// Customers
// -------------------------

func (s *Service) ListCustomers(ctx context.Context, q *ListCustomersQuery) (*customer.Page, error) {
	return s.customers.List(ctx, customer.ListParams{
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    q.Search,
		City:      q.City,
		State:     q.State,
		PinCode:   q.PinCode,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, req *CustomerRequest) (*customer.Customer, error) {
	return s.customers.Create(ctx, &customer.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest) (*customer.Customer, error) {
	return s.customers.Update(ctx, &customer.Customer{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

// -------------------------
// Addresses
// -------------------------

func (s *Service) GetAddresses(ctx context.Context, customerID int64) ([]address.Address, error) {
	return s.addresses.ListByCustomer(ctx, customerID)
}

func (s *Service) CreateAddress(ctx context.Context, customerID int64, req *AddressRequest) (*address.Address, error) {
	return s.addresses.Create(ctx, &address.Address{
		CustomerID:     customerID,
		AddressDetails: req.AddressDetails,
		City:           req.City,
		State:          req.State,
		PinCode:        req.PinCode,
		IsPrimary:      bool(req.IsPrimary),
	})
}

func (s *Service) UpdateAddress(ctx context.Context, id int64, req *AddressRequest) (*address.Address, error) {
	return s.addresses.Update(ctx, &address.Address{
		ID:             id,
		AddressDetails: req.AddressDetails,
		City:           req.City,
		State:          req.State,
		PinCode:        req.PinCode,
		IsPrimary:      bool(req.IsPrimary),
	})
}

func (s *Service) DeleteAddress(ctx context.Context, id int64) error {
	return s.addresses.Delete(ctx, id)
}

func (s *Service) SearchAddresses(ctx context.Context, q *SearchAddressesQuery) ([]address.Address, error) {
	return s.addresses.Search(ctx, address.SearchParams{
		City:       q.City,
		State:      q.State,
		PinCode:    q.PinCode,
		CustomerID: q.CustomerID,
		Limit:      q.Limit,
	})
}
