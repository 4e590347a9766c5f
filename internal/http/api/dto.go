package api

import (
	"fmt"
	"strconv"
	"strings"

	"winsbygroup.com/custbook/internal/validation"
)

// -------------------------
// Customer DTOs
// -------------------------

type CustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Email       string `json:"email" validate:"required"`
}

func (r *CustomerRequest) Normalize() {
	r.FirstName = validation.Clean(r.FirstName)
	r.LastName = validation.Clean(r.LastName)
	r.PhoneNumber = validation.Clean(r.PhoneNumber)
	r.Email = validation.Clean(r.Email)
}

type ListCustomersQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	City      string `query:"city"`
	State     string `query:"state"`
	PinCode   string `query:"pin_code"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=id first_name last_name email phone_number created_at"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=ASC DESC"`
}

func (q *ListCustomersQuery) Normalize() {
	q.Search = validation.Clean(q.Search)
	q.City = validation.Clean(q.City)
	q.State = validation.Clean(q.State)
	q.PinCode = validation.Clean(q.PinCode)
	q.SortBy = strings.TrimSpace(q.SortBy)
	q.SortOrder = strings.ToUpper(strings.TrimSpace(q.SortOrder))
}

// -------------------------
// Address DTOs
// -------------------------

type AddressRequest struct {
	AddressDetails string `json:"address_details" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	PinCode        string `json:"pin_code" validate:"required"`
	IsPrimary      Flag   `json:"is_primary"`
}

func (r *AddressRequest) Normalize() {
	r.AddressDetails = validation.Clean(r.AddressDetails)
	r.City = validation.Clean(r.City)
	r.State = validation.Clean(r.State)
	r.PinCode = validation.Clean(r.PinCode)
}

type SearchAddressesQuery struct {
	City       string `query:"city" validate:"required_without_all=State PinCode CustomerID"`
	State      string `query:"state"`
	PinCode    string `query:"pin_code"`
	CustomerID int64  `query:"customer_id"`
	Limit      int    `query:"limit"`
}

func (q *SearchAddressesQuery) Normalize() {
	q.City = validation.Clean(q.City)
	q.State = validation.Clean(q.State)
	q.PinCode = validation.Clean(q.PinCode)
}

// Flag is a boolean that also accepts numbers and boolean strings
// ("true", "0", ...). Absent or null is false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = false
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("cannot use %s as a boolean", b)
	}
	*f = Flag(v)
	return nil
}
