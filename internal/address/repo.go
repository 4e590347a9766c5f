package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/custbook/internal/customer"
	"winsbygroup.com/custbook/internal/sqlite"
)

// ErrNotFound is returned when no address has the requested id.
var ErrNotFound = errors.New("address not found")

// ErrNoFilter is returned by Search when no filter is set.
var ErrNoFilter = errors.New("address search needs at least one filter")

type Repository interface {
	GetByCustomer(ctx context.Context, customerID int64) ([]Address, error)
	Get(ctx context.Context, id int64) (*Address, error)
	Search(ctx context.Context, p SearchParams) ([]Address, error)
	Create(ctx context.Context, tx *sqlx.Tx, a *Address) (int64, error)
	Update(ctx context.Context, tx *sqlx.Tx, a *Address) error
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetByCustomer(ctx context.Context, customerID int64) ([]Address, error) {
	out := []Address{}
	err := r.db.SelectContext(ctx, &out, getAddressesByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("get addresses for customer: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*Address, error) {
	var a Address
	err := r.db.GetContext(ctx, &a, getAddressSQL, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%d)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

func (r *repo) Search(ctx context.Context, p SearchParams) ([]Address, error) {
	var conds []string
	var args []any

	if p.City != "" {
		conds = append(conds, `city LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(p.City)+"%")
	}
	if p.State != "" {
		conds = append(conds, `state LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(p.State)+"%")
	}
	if p.PinCode != "" {
		conds = append(conds, `pin_code LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(p.PinCode)+"%")
	}
	if p.CustomerID != 0 {
		conds = append(conds, `customer_id = ?`)
		args = append(args, p.CustomerID)
	}
	if len(conds) == 0 {
		return nil, ErrNoFilter
	}

	query := searchAddressesSQL + "WHERE " + strings.Join(conds, " AND ") + "\nORDER BY id\nLIMIT ?"
	args = append(args, p.Limit)

	out := []Address{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	return out, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, a *Address) (int64, error) {
	res, err := tx.ExecContext(ctx, createAddressSQL,
		a.CustomerID,
		a.AddressDetails,
		a.City,
		a.State,
		a.PinCode,
		a.IsPrimary,
	)
	if sqlite.IsForeignKeyError(err) {
		return 0, fmt.Errorf("%w (%d)", customer.ErrNotFound, a.CustomerID)
	}
	if err != nil {
		return 0, fmt.Errorf("create address: %w", err)
	}
	return res.LastInsertId()
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, a *Address) error {
	res, err := tx.ExecContext(ctx, updateAddressSQL,
		a.AddressDetails,
		a.City,
		a.State,
		a.PinCode,
		a.IsPrimary,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return mustAffect(res, a.ID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, deleteAddressSQL, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
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

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
