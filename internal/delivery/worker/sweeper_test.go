package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"soulgate/config"
	"soulgate/internal/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestSweeper_DeletesExpiredRows(t *testing.T) {
	refreshTokens := &mocks.RefreshTokenRepository{}
	refreshTokens.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil)

	txManager := &mocks.TransactionManager{
		Factory: &mocks.RepositoryFactory{RefreshTokens: refreshTokens},
	}
	txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)

	s := &sweeper{
		interval:  10 * time.Millisecond,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		txManager: txManager,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(refreshTokens.Calls) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	refreshTokens.AssertCalled(t, "DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time"))
}

func TestNewSweeper_ReadsInterval(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{SweepInterval: time.Hour}}

	s := NewSweeper(SweeperParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		TxManager: &mocks.TransactionManager{},
	})

	require.Equal(t, time.Hour, s.(*sweeper).interval)
}
