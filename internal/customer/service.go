package customer

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "created_at"
	DefaultOrder    = "DESC"
)

type Service struct {
	repo        Repository
	db          *sqlx.DB
	defaultSize int
	maxSize     int
}

type Option func(*Service)

// WithPageSize overrides the default and maximum page sizes. Non-positive
// values keep the package defaults.
func WithPageSize(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultSize = def
		}
		if max > 0 {
			s.maxSize = max
		}
	}
}

func NewService(db *sqlx.DB, opts ...Option) *Service {
	s := &Service{
		db:          db,
		repo:        New(db),
		defaultSize: DefaultPageSize,
		maxSize:     MaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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

// List returns one page of customers. The count and the page are read in the
// same transaction so the reported total always matches the rows it pages over.
func (s *Service) List(ctx context.Context, p ListParams) (*Page, error) {
	p = s.normalize(p)

	page := &Page{Page: p.Page, Limit: p.Limit}
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if page.Total, err = s.repo.Count(ctx, tx, p); err != nil {
			return err
		}
		page.Items, err = s.repo.List(ctx, tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	var id int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.repo.Create(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Update replaces the business fields of c.ID and returns the stored row.
func (s *Service) Update(ctx context.Context, c *Customer) (*Customer, error) {
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, c.ID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) normalize(p ListParams) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = s.defaultSize
	}
	if p.Limit > s.maxSize {
		p.Limit = s.maxSize
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder == "" {
		p.SortOrder = DefaultOrder
	}
	return p
}
