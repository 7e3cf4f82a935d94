package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paybridge/internal/models"
	"paybridge/internal/repository"
)

// Sweeper periodically expires transactions whose payer never came back
// from the widget. Only the local state machine is touched; the Shopify
// draft stays abandoned, as the storefront expects.
type Sweeper struct {
	cron   *cron.Cron
	repo   *repository.TransactionRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSweeper creates a sweeper that expires initiated transactions older
// than ttl.
func NewSweeper(repo *repository.TransactionRepository, ttl time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cron:   cron.New(cron.WithSeconds()),
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// Start registers and starts the sweep job.
func (s *Sweeper) Start() {
	s.logger.Info("Starting pending-transaction sweeper",
		zap.Duration("pending_ttl", s.ttl))

	// Every 10 minutes
	s.cron.AddFunc("0 */10 * * * *", func() {
		s.logger.Debug("Running: expire stale transactions")
		s.sweep()
	})

	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running
// jobs finish.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) sweep() {
	n, err := s.repo.ExpireStale(s.ttl)
	if err != nil {
		s.logger.Error("sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		pending, _ := s.repo.CountByStatus(models.TxInitiated)
		s.logger.Info("expired stale transactions",
			zap.Int64("count", n),
			zap.Int64("still_pending", pending))
	}
}
