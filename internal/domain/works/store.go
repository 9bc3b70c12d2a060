package works

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("work not found")
	ErrInvalidType = errors.New("invalid work type")
)

type ListFilter struct {
	Type     string
	Featured *bool
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

type StoreOption func(*Store)

// WithClock overrides the time source used for updated_at.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ordered applies the presentation order of a category.
func Ordered(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC").Order("created_at DESC").Order("id DESC")
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Work, error) {
	q := s.db.WithContext(ctx).Model(&Work{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}

	out := []Work{}
	if err := Ordered(q).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*Work, error) {
	var w Work
	if err := s.db.WithContext(ctx).First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get work %d: %w", id, err)
	}
	return &w, nil
}

// Exists reports whether a work with id is stored.
func (s *Store) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Work{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count work %d: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) Create(ctx context.Context, w *Work) error {
	if !ValidType(w.Type) {
		return ErrInvalidType
	}
	if strings.TrimSpace(w.Titre) == "" {
		return ErrEmptyTitle
	}
	w.ID = 0
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create work: %w", err)
	}
	return nil
}

// Update assigns the fields present in p and always refreshes updated_at.
func (s *Store) Update(ctx context.Context, id uint, p Patch) (*Work, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var out Work
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := p.Updates()
		u["updated_at"] = s.now()

		res := tx.Model(&Work{}).Where("id = ?", id).Updates(map[string]any(u))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update work %d: %w", id, err)
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Work{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete work %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
