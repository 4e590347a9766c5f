package address

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 100
)

type Service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ListByCustomer returns every address of the customer, oldest first. An
// unknown customer has no addresses.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Address, error) {
	return s.repo.GetByCustomer(ctx, customerID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Address, error) {
	return s.repo.Get(ctx, id)
}

// Search returns at most p.Limit addresses matching every set filter.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]Address, error) {
	if p.empty() {
		return nil, ErrNoFilter
	}
	if p.Limit < 1 {
		p.Limit = DefaultSearchLimit
	}
	if p.Limit > MaxSearchLimit {
		p.Limit = MaxSearchLimit
	}
	return s.repo.Search(ctx, p)
}

// Create stores a under a.CustomerID. Whether the customer must exist
// depends on the connection's foreign key setting.
func (s *Service) Create(ctx context.Context, a *Address) (*Address, error) {
	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Update replaces the mutable fields of a.ID. The owning customer is kept.
func (s *Service) Update(ctx context.Context, a *Address) (*Address, error) {
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, a.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}
