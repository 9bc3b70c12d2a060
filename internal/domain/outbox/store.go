package outbox

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Enqueue stores pending emails due now. Pass a transaction handle to commit
// them atomically with the triggering write.
func (s *Store) Enqueue(ctx context.Context, now time.Time, emails ...*Email) error {
	if len(emails) == 0 {
		return nil
	}
	for _, e := range emails {
		e.ID = 0
		e.Status = StatusPending
		e.Attempts = 0
		e.NextAttemptAt = now.UTC()
	}
	if err := s.db.WithContext(ctx).Create(emails).Error; err != nil {
		return fmt.Errorf("enqueue emails: %w", err)
	}
	return nil
}

// Due returns up to limit pending emails whose next attempt is not in the
// future. Times are compared in UTC.
func (s *Store) Due(ctx context.Context, now time.Time, limit int) ([]Email, error) {
	var out []Email
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", StatusPending, now.UTC()).
		Order("next_attempt_at ASC").Order("id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load due emails: %w", err)
	}
	return out, nil
}

func (s *Store) MarkSent(ctx context.Context, id uint, now time.Time) error {
	return s.update(ctx, id, map[string]any{
		"status":     StatusSent,
		"sent_at":    now.UTC(),
		"last_error": nil,
		"attempts":   gorm.Expr("attempts + 1"),
	})
}

// MarkRetry records a failed attempt and schedules the next one.
func (s *Store) MarkRetry(ctx context.Context, id uint, cause error, next time.Time) error {
	msg := cause.Error()
	return s.update(ctx, id, map[string]any{
		"attempts":        gorm.Expr("attempts + 1"),
		"last_error":      msg,
		"next_attempt_at": next.UTC(),
	})
}

// MarkFailed records the last failed attempt and stops retrying.
func (s *Store) MarkFailed(ctx context.Context, id uint, cause error) error {
	msg := cause.Error()
	return s.update(ctx, id, map[string]any{
		"status":     StatusFailed,
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": msg,
	})
}

// CountByStatus reports queue depth per status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := s.db.WithContext(ctx).Model(&Email{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count outbox: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func (s *Store) update(ctx context.Context, id uint, values map[string]any) error {
	err := s.db.WithContext(ctx).Model(&Email{}).Where("id = ?", id).Updates(values).Error
	if err != nil {
		return fmt.Errorf("update outbox email %d: %w", id, err)
	}
	return nil
}
