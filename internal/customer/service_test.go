package customer_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/custbook/internal/customer"
	"winsbygroup.com/custbook/internal/testutil"
)

func newCustomer(first, last string) *customer.Customer {
	return &customer.Customer{
		FirstName:   first,
		LastName:    last,
		PhoneNumber: "555-0100",
		Email:       strings.ToLower(first) + "@example.com",
	}
}

func seed(t *testing.T, svc *customer.Service, customers ...*customer.Customer) []*customer.Customer {
	t.Helper()
	out := make([]*customer.Customer, 0, len(customers))
	for _, c := range customers {
		created, err := svc.Create(context.Background(), c)
		if err != nil {
			t.Fatalf("create %s: %v", c.FirstName, err)
		}
		out = append(out, created)
	}
	return out
}

func sameCustomer(a, b *customer.Customer) bool {
	return a.ID == b.ID &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.PhoneNumber == b.PhoneNumber &&
		a.Email == b.Email &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func ids(cs []customer.Customer) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	svc := customer.NewService(db)

	// Create
	created, err := svc.Create(ctx, &customer.Customer{
		FirstName:   "A",
		LastName:    "B",
		PhoneNumber: "111",
		Email:       "a@b.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set by the database")
	}

	// Get
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sameCustomer(got, created) {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	// Update
	got.FirstName = "Alice"
	got.Email = "alice@b.com"
	updated, err := svc.Update(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Alice" || updated.Email != "alice@b.com" {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed on update: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	// Delete
	if err := svc.Delete(ctx, updated.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, updated.ID)
	if !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound getting deleted customer, got %v", err)
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	created := seed(t, svc,
		newCustomer("Ann", "One"),
		newCustomer("Bob", "Two"),
		newCustomer("Cid", "Three"),
	)

	// a deleted id must not be handed out again
	if err := svc.Delete(context.Background(), created[2].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	created = append(created, seed(t, svc, newCustomer("Dee", "Four"))...)

	for i := 1; i < len(created); i++ {
		if created[i].ID <= created[i-1].ID {
			t.Errorf("id %d is not greater than previous id %d", created[i].ID, created[i-1].ID)
		}
	}
}

func TestUpdateMissingCustomer(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	existing := seed(t, svc, newCustomer("Ann", "One"))[0]

	missing := newCustomer("Ghost", "Row")
	missing.ID = existing.ID + 100
	if _, err := svc.Update(ctx, missing); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := svc.Get(ctx, existing.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sameCustomer(got, existing) {
		t.Errorf("existing row changed: %+v", got)
	}
	if _, err := svc.Get(ctx, missing.ID); !errors.Is(err, customer.ErrNotFound) {
		t.Errorf("update must not create a row, got %v", err)
	}
}

func TestDeleteMissingCustomer(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	c := seed(t, svc,
		newCustomer("Ann", "One"),
		newCustomer("Bob", "Two"),
		newCustomer("Cid", "Three"),
	)

	tests := []struct {
		name   string
		params customer.ListParams
		want   []int64
	}{
		{"defaults are newest first", customer.ListParams{}, []int64{c[2].ID, c[1].ID, c[0].ID}},
		{"second page of one", customer.ListParams{Page: 2, Limit: 1}, []int64{c[1].ID}},
		{"second page ascending", customer.ListParams{Page: 2, Limit: 1, SortOrder: "asc"}, []int64{c[1].ID}},
		{"first page ascending by name", customer.ListParams{Limit: 2, SortBy: "first_name", SortOrder: "ASC"}, []int64{c[0].ID, c[1].ID}},
		{"past the end", customer.ListParams{Page: 4, Limit: 1}, []int64{}},
		{"page below one is page one", customer.ListParams{Page: -3, Limit: 1}, []int64{c[2].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.params)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := ids(page.Items); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("expected ids %v, got %v", tt.want, got)
			}
			if page.Total != 3 {
				t.Errorf("expected total 3, got %d", page.Total)
			}
		})
	}
}

func TestListPageSizeLimits(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db, customer.WithPageSize(2, 3))

	for i := 0; i < 5; i++ {
		seed(t, svc, newCustomer(fmt.Sprintf("C%d", i), "Test"))
	}

	page, err := svc.List(ctx, customer.ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != 2 || len(page.Items) != 2 {
		t.Errorf("expected default page size 2, got limit=%d items=%d", page.Limit, len(page.Items))
	}
	if page.TotalPages() != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages())
	}

	page, err = svc.List(ctx, customer.ListParams{Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != 3 || len(page.Items) != 3 {
		t.Errorf("expected page size capped at 3, got limit=%d items=%d", page.Limit, len(page.Items))
	}
}

// The reported total follows the search filter, and walking every page
// yields exactly the matching subset whatever the page size.
func TestListSearch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	seed(t, svc,
		&customer.Customer{FirstName: "Maria", LastName: "Lopez", PhoneNumber: "555-1000", Email: "ml@example.com"},
		&customer.Customer{FirstName: "Mario", LastName: "Rossi", PhoneNumber: "555-2000", Email: "mr@example.com"},
		&customer.Customer{FirstName: "Jane", LastName: "Marsh", PhoneNumber: "555-3000", Email: "jm@example.com"},
		&customer.Customer{FirstName: "John", LastName: "Doe", PhoneNumber: "777-4000", Email: "jd@example.org"},
		&customer.Customer{FirstName: "Ola", LastName: "Nor", PhoneNumber: "555-5000", Email: "mar@example.net"},
	)

	tests := []struct {
		search string
		want   int
	}{
		{"Mar", 4},     // first name, last name and email
		{"777", 1},     // phone number
		{"example", 5}, // every email
		{"zzz", 0},
	}

	for _, tt := range tests {
		for _, limit := range []int{1, 2, 10} {
			t.Run(fmt.Sprintf("%s/limit=%d", tt.search, limit), func(t *testing.T) {
				seen := map[int64]bool{}
				for pageNo := 1; ; pageNo++ {
					page, err := svc.List(ctx, customer.ListParams{Page: pageNo, Limit: limit, Search: tt.search})
					if err != nil {
						t.Fatalf("list: %v", err)
					}
					if page.Total != tt.want {
						t.Fatalf("expected total %d, got %d", tt.want, page.Total)
					}
					for _, c := range page.Items {
						hay := c.FirstName + "|" + c.LastName + "|" + c.Email + "|" + c.PhoneNumber
						if !strings.Contains(strings.ToLower(hay), strings.ToLower(tt.search)) {
							t.Errorf("customer %d does not match %q", c.ID, tt.search)
						}
						if seen[c.ID] {
							t.Errorf("customer %d returned twice", c.ID)
						}
						seen[c.ID] = true
					}
					if len(page.Items) < limit {
						break
					}
				}
				if len(seen) != tt.want {
					t.Errorf("expected %d matches across pages, got %d", tt.want, len(seen))
				}
			})
		}
	}
}

func TestListSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	seed(t, svc,
		&customer.Customer{FirstName: "snake_case", LastName: "X", PhoneNumber: "1", Email: "s@x.io"},
		&customer.Customer{FirstName: "plain", LastName: "X", PhoneNumber: "2", Email: "p@x.io"},
		&customer.Customer{FirstName: "100%", LastName: "X", PhoneNumber: "3", Email: "h@x.io"},
	)

	for search, want := range map[string]int{"_": 1, "%": 1, "e_c": 1} {
		page, err := svc.List(ctx, customer.ListParams{Search: search})
		if err != nil {
			t.Fatalf("list %q: %v", search, err)
		}
		if page.Total != want {
			t.Errorf("search %q: expected %d, got %d", search, want, page.Total)
		}
	}
}

func TestListAddressFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	c := seed(t, svc,
		newCustomer("Ann", "One"),
		newCustomer("Bob", "Two"),
		newCustomer("Cid", "Three"),
	)

	db.MustExec(`
		INSERT INTO addresses (customer_id, address_details, city, state, pin_code) VALUES
			(?, '1 Main St', 'Springfield', 'Illinois', '62701'),
			(?, '2 Main St', 'Springfield', 'Oregon', '97477'),
			(?, '3 Side St', 'Portland', 'Oregon', '97201')`,
		c[0].ID, c[1].ID, c[1].ID)

	tests := []struct {
		name   string
		params customer.ListParams
		want   []int64
	}{
		{"city", customer.ListParams{City: "springfield", SortOrder: "ASC"}, []int64{c[0].ID, c[1].ID}},
		{"state", customer.ListParams{State: "Oregon"}, []int64{c[1].ID}},
		{"pin prefix", customer.ListParams{PinCode: "97"}, []int64{c[1].ID}},
		{"pin is not a substring match", customer.ListParams{PinCode: "701"}, []int64{}},
		{"filters combine on one address", customer.ListParams{City: "Portland", State: "Illinois"}, []int64{}},
		{"with search", customer.ListParams{City: "Springfield", Search: "Ann"}, []int64{c[0].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.params)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := ids(page.Items); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if page.Total != len(tt.want) {
				t.Errorf("expected total %d, got %d", len(tt.want), page.Total)
			}
		})
	}
}

func TestListRejectsUnknownSort(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	for _, p := range []customer.ListParams{
		{SortBy: "id; DROP TABLE customers"},
		{SortBy: "notes"},
		{SortOrder: "sideways"},
	} {
		if _, err := svc.List(ctx, p); !errors.Is(err, customer.ErrInvalidSort) {
			t.Errorf("%+v: expected ErrInvalidSort, got %v", p, err)
		}
	}

	var se *customer.SortError
	if _, err := svc.List(ctx, customer.ListParams{SortOrder: "sideways"}); !errors.As(err, &se) || se.Param != "order" {
		t.Errorf("expected order to be named, got %v", err)
	}
	if _, err := svc.List(ctx, customer.ListParams{SortBy: "notes"}); !errors.As(err, &se) || se.Param != "column" {
		t.Errorf("expected column to be named, got %v", err)
	}
}

func TestListFarPastTheEnd(t *testing.T) {
	ctx := context.Background()
	svc := customer.NewService(testutil.NewTestDB(t))
	seed(t, svc, newCustomer("Ann", "One"), newCustomer("Bob", "Two"), newCustomer("Cid", "Three"))

	for _, pageNo := range []int{4, math.MaxInt/10 + 2, math.MaxInt} {
		page, err := svc.List(ctx, customer.ListParams{Page: pageNo, Limit: 10})
		if err != nil {
			t.Fatalf("page %d: %v", pageNo, err)
		}
		if len(page.Items) != 0 {
			t.Errorf("page %d: expected no rows, got %d", pageNo, len(page.Items))
		}
		if page.Total != 3 || page.Page != pageNo {
			t.Errorf("page %d: expected total 3 and page echoed, got total %d page %d", pageNo, page.Total, page.Page)
		}
	}
}

func TestStorageErrorsAreNotNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDB.Close()

	svc := customer.NewService(sqlx.NewDb(mockDB, "sqlmock"))

	t.Run("get", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM customers").WithArgs(7).WillReturnError(errors.New("disk I/O error"))

		_, err := svc.Get(context.Background(), 7)
		if err == nil || errors.Is(err, customer.ErrNotFound) {
			t.Fatalf("expected a storage error, got %v", err)
		}
		if !strings.Contains(err.Error(), "disk I/O error") {
			t.Errorf("expected the engine message to be kept, got %q", err)
		}
	})

	t.Run("update with no matching row rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE customers").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := svc.Update(context.Background(), &customer.Customer{ID: 9})
		if !errors.Is(err, customer.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
