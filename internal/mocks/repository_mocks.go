// Package mocks provides hand-maintained testify mocks for the domain
// interfaces used across usecase and delivery tests.
package mocks

import (
	"context"
	"time"

	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// TransactionManager is a mock for repository.TransactionManager. Execute
// runs the callback against the factory configured on the mock so tests
// exercise the real transactional flow.
type TransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}

	return fn(m.Factory)
}

// RepositoryFactory is a mock for repository.RepositoryFactory.
type RepositoryFactory struct {
	mock.Mock

	Users         *UserRepository
	Platforms     *PlatformRepository
	PlatformUsers *PlatformUserRepository
	RefreshTokens *RefreshTokenRepository
}

func (m *RepositoryFactory) UserRepo() repository.UserRepository {
	return m.Users
}

func (m *RepositoryFactory) PlatformRepo() repository.PlatformRepository {
	return m.Platforms
}

func (m *RepositoryFactory) PlatformUserRepo() repository.PlatformUserRepository {
	return m.PlatformUsers
}

func (m *RepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return m.RefreshTokens
}

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

// PlatformRepository is a mock for repository.PlatformRepository.
type PlatformRepository struct {
	mock.Mock
}

func (m *PlatformRepository) FindByID(ctx context.Context, id int64) (*entity.Platform, error) {
	args := m.Called(ctx, id)
	if platform, ok := args.Get(0).(*entity.Platform); ok {
		return platform, args.Error(1)
	}

	return nil, args.Error(1)
}

// PlatformUserRepository is a mock for repository.PlatformUserRepository.
type PlatformUserRepository struct {
	mock.Mock
}

func (m *PlatformUserRepository) Create(ctx context.Context, platformUser *entity.PlatformUser) error {
	args := m.Called(ctx, platformUser)

	return args.Error(0)
}

func (m *PlatformUserRepository) FindByPlatformAndUser(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error) {
	args := m.Called(ctx, platformID, userID)
	if platformUser, ok := args.Get(0).(*entity.PlatformUser); ok {
		return platformUser, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *PlatformUserRepository) FindAllByPlatform(ctx context.Context, platformID int64, offset, limit int) ([]*entity.PlatformUser, int64, error) {
	args := m.Called(ctx, platformID, offset, limit)
	if members, ok := args.Get(0).([]*entity.PlatformUser); ok {
		return members, args.Get(1).(int64), args.Error(2)
	}

	return nil, 0, args.Error(2)
}

func (m *PlatformUserRepository) UpdateRoles(ctx context.Context, id int64, roles entity.Roles) error {
	args := m.Called(ctx, id, roles)

	return args.Error(0)
}

func (m *PlatformUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *PlatformUserRepository) CountAdminsByPlatform(ctx context.Context, platformID int64) (int64, error) {
	args := m.Called(ctx, platformID)

	return args.Get(0).(int64), args.Error(1)
}

// RefreshTokenRepository is a mock for repository.RefreshTokenRepository.
type RefreshTokenRepository struct {
	mock.Mock
}

func (m *RefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *RefreshTokenRepository) FindByID(ctx context.Context, id int64) (*entity.RefreshToken, error) {
	args := m.Called(ctx, id)
	if token, ok := args.Get(0).(*entity.RefreshToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *RefreshTokenRepository) RevokeByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *RefreshTokenRepository) RevokeByPlatformUser(ctx context.Context, platformUserID int64) error {
	args := m.Called(ctx, platformUserID)

	return args.Error(0)
}

func (m *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	args := m.Called(ctx, now)

	return args.Error(0)
}
