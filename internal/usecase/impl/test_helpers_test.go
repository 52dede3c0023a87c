package impl

import (
	"io"
	"log/slog"
	"time"

	"soulgate/config"
	"soulgate/internal/mocks"

	"github.com/stretchr/testify/mock"
)

// repoHarness bundles a transaction manager mock with the repository mocks
// its factory hands out, so tests can stub repositories directly.
type repoHarness struct {
	txManager     *mocks.TransactionManager
	users         *mocks.UserRepository
	platforms     *mocks.PlatformRepository
	platformUsers *mocks.PlatformUserRepository
	refreshTokens *mocks.RefreshTokenRepository
}

func newRepoHarness() *repoHarness {
	harness := &repoHarness{
		txManager:     &mocks.TransactionManager{},
		users:         &mocks.UserRepository{},
		platforms:     &mocks.PlatformRepository{},
		platformUsers: &mocks.PlatformUserRepository{},
		refreshTokens: &mocks.RefreshTokenRepository{},
	}
	harness.txManager.Factory = &mocks.RepositoryFactory{
		Users:         harness.users,
		Platforms:     harness.platforms,
		PlatformUsers: harness.platformUsers,
		RefreshTokens: harness.refreshTokens,
	}
	harness.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)

	return harness
}

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   7 * 24 * time.Hour,
			CodeTTL:           5 * time.Minute,
			SweepInterval:     time.Hour,
			MaxPlatformAdmins: 5,
			LandingPlatformID: 2,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
