package mail

import (
	"context"
	"time"

	"artist-portfolio/internal/domain/outbox"

	"go.uber.org/zap"
)

const (
	DefaultBackoffBase = 30 * time.Second
	DefaultBackoffMax  = time.Hour
	defaultBatchSize   = 20
)

type DispatcherConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	BatchSize    int
}

// Dispatcher delivers pending outbox emails and reschedules failures with
// exponential backoff until MaxAttempts is reached.
type Dispatcher struct {
	store  *outbox.Store
	sender Sender
	log    *zap.Logger
	cfg    DispatcherConfig
	now    func() time.Time
}

func NewDispatcher(store *outbox.Store, sender Sender, log *zap.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Dispatcher{
		store:  store,
		sender: sender,
		log:    log.Named("mail"),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Run flushes the outbox every PollInterval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.log.Info("outbox dispatcher started", zap.Duration("interval", d.cfg.PollInterval))
	for {
		if _, err := d.Flush(ctx); err != nil && ctx.Err() == nil {
			d.log.Error("outbox flush failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			d.log.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// Flush attempts every due email once and returns how many were sent.
func (d *Dispatcher) Flush(ctx context.Context) (int, error) {
	due, err := d.store.Due(ctx, d.now(), d.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		sendErr := d.sender.Send(ctx, Message{
			To:      e.Recipient,
			Subject: e.Subject,
			Text:    e.TextBody,
			HTML:    e.HTMLBody,
		})
		log := d.log.With(zap.Uint("email_id", e.ID), zap.String("kind", e.Kind))

		if sendErr == nil {
			if err := d.store.MarkSent(ctx, e.ID, d.now()); err != nil {
				return sent, err
			}
			sent++
			log.Info("email sent")
			continue
		}

		attempt := e.Attempts + 1
		if attempt >= d.cfg.MaxAttempts {
			log.Error("email delivery abandoned", zap.Int("attempts", attempt), zap.Error(sendErr))
			if err := d.store.MarkFailed(ctx, e.ID, sendErr); err != nil {
				return sent, err
			}
			continue
		}

		wait := Backoff(d.cfg.BackoffBase, d.cfg.BackoffMax, attempt)
		log.Warn("email delivery failed, will retry",
			zap.Int("attempts", attempt), zap.Duration("retry_in", wait), zap.Error(sendErr))
		if err := d.store.MarkRetry(ctx, e.ID, sendErr, d.now().Add(wait)); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// Backoff returns base * 2^(attempt-1), capped at ceiling.
func Backoff(base, ceiling time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := base
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= ceiling {
			return ceiling
		}
	}
	return min(wait, ceiling)
}
