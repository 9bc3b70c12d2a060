package contacts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("contact not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, c *Contact) error {
	c.ID = 0
	if err := s.db.WithContext(ctx).Omit("Work").Create(c).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// List returns every contact newest first, with the referenced work loaded.
func (s *Store) List(ctx context.Context) ([]Contact, error) {
	out := []Contact{}
	err := s.db.WithContext(ctx).
		Preload("Work").
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*Contact, error) {
	var c Contact
	if err := s.db.WithContext(ctx).Preload("Work").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &c, nil
}

func (s *Store) MarkRead(ctx context.Context, id uint) (*Contact, error) {
	res := s.db.WithContext(ctx).Model(&Contact{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return nil, fmt.Errorf("mark contact %d read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Contact{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete contact %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
