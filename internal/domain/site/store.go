package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store reads and writes the single-row settings tables.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) ArtistInfo(ctx context.Context) (*ArtistInfo, error) {
	return load(ctx, s.db, DefaultArtistInfo)
}

func (s *Store) UpdateArtistInfo(ctx context.Context, p ArtistPatch) (*ArtistInfo, error) {
	return upsert(ctx, s.db, s.now(), DefaultArtistInfo, p.apply)
}

func (s *Store) ContactInfo(ctx context.Context) (*ContactInfo, error) {
	return load(ctx, s.db, DefaultContactInfo)
}

func (s *Store) UpdateContactInfo(ctx context.Context, p ContactInfoPatch) (*ContactInfo, error) {
	return upsert(ctx, s.db, s.now(), DefaultContactInfo, p.apply)
}

func (s *Store) Settings(ctx context.Context) (*Settings, error) {
	return load(ctx, s.db, DefaultSettings)
}

func (s *Store) UpdateSettings(ctx context.Context, p SettingsPatch) (*Settings, error) {
	return upsert(ctx, s.db, s.now(), DefaultSettings, p.apply)
}

// EnsureDefaults inserts the default row of each table that has none.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	rows := []any{
		ptr(DefaultArtistInfo()),
		ptr(DefaultContactInfo()),
		ptr(DefaultSettings()),
	}
	for _, row := range rows {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(row).Error
		if err != nil {
			return fmt.Errorf("insert default %T: %w", row, err)
		}
	}
	return nil
}

type record[T any] interface {
	*T
	stamp(now time.Time)
}

// load returns the stored row or, when the table is empty, the defaults.
// Defaults are not persisted.
func load[T any](ctx context.Context, db *gorm.DB, defaults func() T) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ?", SingletonID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := defaults()
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %T: %w", row, err)
	}
	return &row, nil
}

// upsert applies a patch on top of the stored row (or the defaults) and
// writes it back as row 1.
func upsert[T any, P record[T]](ctx context.Context, db *gorm.DB, now time.Time, defaults func() T, apply func(*T)) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", SingletonID).Take(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = defaults()
		case err != nil:
			return err
		}

		apply(&row)
		P(&row).stamp(now)

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save %T: %w", row, err)
	}
	return &row, nil
}

func ptr[T any](v T) *T { return &v }
