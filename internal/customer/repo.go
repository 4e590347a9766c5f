package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no customer has the requested id.
var ErrNotFound = errors.New("customer not found")

// ErrInvalidSort is returned for a sort column or direction outside the allowed set.
var ErrInvalidSort = errors.New("invalid sort")

// SortError names the sort setting that was rejected. It matches ErrInvalidSort.
type SortError struct {
	Param string // "column" or "order"
	Value string
}

func (e *SortError) Error() string {
	return fmt.Sprintf("%v: %s %q", ErrInvalidSort, e.Param, e.Value)
}

func (e *SortError) Unwrap() error { return ErrInvalidSort }

// SortColumns lists the columns a listing may be ordered by.
var SortColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "created_at"}

type Repository interface {
	List(ctx context.Context, q sqlx.QueryerContext, p ListParams) ([]Customer, error)
	Count(ctx context.Context, q sqlx.QueryerContext, p ListParams) (int, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context, q sqlx.QueryerContext, p ListParams) ([]Customer, error) {
	order, err := orderBy(p.SortBy, p.SortOrder)
	if err != nil {
		return nil, err
	}
	// the offset of a page this far out does not fit in an int
	if p.Page-1 > math.MaxInt/p.Limit {
		return []Customer{}, nil
	}
	where, args := filter(p)

	query := listCustomersSQL + where + order + "LIMIT ? OFFSET ?\n"
	args = append(args, p.Limit, (p.Page-1)*p.Limit)

	out := []Customer{}
	if err := sqlx.SelectContext(ctx, q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *repo) Count(ctx context.Context, q sqlx.QueryerContext, p ListParams) (int, error) {
	where, args := filter(p)

	var n int
	if err := sqlx.GetContext(ctx, q, &n, countCustomersSQL+where, args...); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, getCustomerSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Customer) (int64, error) {
	res, err := tx.ExecContext(ctx, createCustomerSQL,
		c.FirstName,
		c.LastName,
		c.PhoneNumber,
		c.Email,
	)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	res, err := tx.ExecContext(ctx, updateCustomerSQL,
		c.FirstName,
		c.LastName,
		c.PhoneNumber,
		c.Email,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return mustAffect(res, c.ID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return mustAffect(res, id)
}

func mustAffect(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	return nil
}

// filter returns the WHERE clause shared by the page and count queries.
func filter(p ListParams) (string, []any) {
	var conds []string
	var args []any

	if p.Search != "" {
		like := containsPattern(p.Search)
		conds = append(conds, searchClause)
		args = append(args, like, like, like, like)
	}

	var addr []string
	if p.City != "" {
		addr = append(addr, `a.city LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(p.City))
	}
	if p.State != "" {
		addr = append(addr, `a.state LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(p.State))
	}
	if p.PinCode != "" {
		addr = append(addr, `a.pin_code LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(p.PinCode)+"%")
	}
	if len(addr) > 0 {
		conds = append(conds, fmt.Sprintf(addressExistsClause, strings.Join(addr, " AND ")))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, "\n  AND ") + "\n", args
}

// orderBy only ever interpolates names from SortColumns.
func orderBy(column, direction string) (string, error) {
	if !ValidSortColumn(column) {
		return "", &SortError{Param: "column", Value: column}
	}
	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		return "", &SortError{Param: "order", Value: direction}
	}
	if column == "id" {
		return "ORDER BY id " + dir + "\n", nil
	}
	// id breaks ties between rows created in the same second
	return fmt.Sprintf("ORDER BY %s %s, id %s\n", column, dir, dir), nil
}

func ValidSortColumn(column string) bool {
	return slices.Contains(SortColumns, column)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
