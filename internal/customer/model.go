package customer

import "time"

type Customer struct {
	ID          int64     `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ListParams selects one page of customers. Zero values fall back to the
// service defaults.
type ListParams struct {
	Page      int
	Limit     int
	Search    string // substring of first name, last name, email or phone number
	City      string // customer owns an address whose city contains this
	State     string // ... whose state contains this
	PinCode   string // ... whose pin code starts with this
	SortBy    string
	SortOrder string
}

// Page is one slice of a filtered customer listing. Total counts every
// customer matching the filters, not just the rows in Items.
type Page struct {
	Items []Customer
	Page  int
	Limit int
	Total int
}

func (p *Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
