package address

import "time"

type Address struct {
	ID             int64     `db:"id" json:"id"`
	CustomerID     int64     `db:"customer_id" json:"customer_id"`
	AddressDetails string    `db:"address_details" json:"address_details"`
	City           string    `db:"city" json:"city"`
	State          string    `db:"state" json:"state"`
	PinCode        string    `db:"pin_code" json:"pin_code"`
	IsPrimary      bool      `db:"is_primary" json:"is_primary"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SearchParams filters addresses across customers. Set fields are ANDed.
type SearchParams struct {
	City       string // substring, case-insensitive
	State      string // substring, case-insensitive
	PinCode    string // prefix
	CustomerID int64  // exact, 0 for any customer
	Limit      int
}

func (p SearchParams) empty() bool {
	return p.City == "" && p.State == "" && p.PinCode == "" && p.CustomerID == 0
}
