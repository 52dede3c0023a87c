package mocks

import (
	"context"

	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/service"
	"soulgate/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// AuthUsecase is a mock for usecase.AuthUsecase.
type AuthUsecase struct {
	mock.Mock
}

func (m *AuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.TokenPairOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) IssueCode(ctx context.Context, input usecase.IssueCodeInput) (*usecase.CodeOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.CodeOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) ExchangeCode(ctx context.Context, input usecase.ExchangeCodeInput) (*usecase.PlatformTokenOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.PlatformTokenOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	args := m.Called(ctx, refreshToken)
	if out, ok := args.Get(0).(*usecase.RefreshOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) RefreshWithPlatform(ctx context.Context, refreshToken string, platformID int64) (*usecase.RefreshOutput, error) {
	args := m.Called(ctx, refreshToken, platformID)
	if out, ok := args.Get(0).(*usecase.RefreshOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)

	return args.Error(0)
}

// PlatformUserUsecase is a mock for usecase.PlatformUserUsecase.
type PlatformUserUsecase struct {
	mock.Mock
}

func (m *PlatformUserUsecase) FindOne(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error) {
	args := m.Called(ctx, platformID, userID)
	if out, ok := args.Get(0).(*entity.PlatformUser); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *PlatformUserUsecase) AddUser(ctx context.Context, input usecase.AddUserInput) (*entity.PlatformUser, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*entity.PlatformUser); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *PlatformUserUsecase) SetRoles(ctx context.Context, input usecase.SetRolesInput) (*entity.PlatformUser, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*entity.PlatformUser); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *PlatformUserUsecase) RemoveUser(ctx context.Context, platformID, userID int64) error {
	args := m.Called(ctx, platformID, userID)

	return args.Error(0)
}

func (m *PlatformUserUsecase) Quit(ctx context.Context, platformID, userID int64) error {
	args := m.Called(ctx, platformID, userID)

	return args.Error(0)
}

func (m *PlatformUserUsecase) ListMembers(ctx context.Context, input usecase.ListMembersInput) (*usecase.ListMembersOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.ListMembersOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

// Authorizer is a mock for usecase.Authorizer.
type Authorizer struct {
	mock.Mock
}

func (m *Authorizer) Authorize(ctx context.Context, claims *service.AccessClaims, targetPlatformID int64, required entity.Roles) error {
	args := m.Called(ctx, claims, targetPlatformID, required)

	return args.Error(0)
}
