// Package worker contains background deliveries that run beside the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"soulgate/config"
	"soulgate/internal/delivery"
	"soulgate/internal/domain/repository"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SweeperParams holds dependencies for the expiry sweeper.
type SweeperParams struct {
	fx.In
	fx.Lifecycle

	Config    *config.Config
	Logger    *slog.Logger
	TxManager repository.TransactionManager
}

// sweeper periodically deletes refresh token rows past their expiry,
// revoked ones included. Revoked rows must survive until expiry so their
// re-use stays distinguishable from an unknown token.
type sweeper struct {
	interval  time.Duration
	logger    *slog.Logger
	txManager repository.TransactionManager
	cancel    context.CancelFunc
}

// NewSweeper creates the refresh token expiry sweeper.
func NewSweeper(params SweeperParams) delivery.Delivery {
	s := &sweeper{
		interval:  params.Config.Auth.SweepInterval,
		logger:    params.Logger,
		txManager: params.TxManager,
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if s.cancel != nil {
				s.cancel()
			}

			return nil
		},
	})

	return s
}

// Serve runs the sweep loop until the delivery is stopped.
func (s *sweeper) Serve(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("Starting refresh token sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping refresh token sweeper")

			return nil
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				// Keep ticking; the next sweep retries the same rows.
				s.logger.Error("Refresh token sweep failed", slog.Any("error", err))
			}
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) error {
	now := time.Now()

	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.RefreshTokenRepo().DeleteExpired(ctx, now)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete expired refresh tokens")
	}

	s.logger.Debug("Refresh token sweep completed", slog.Time("cutoff", now))

	return nil
}
