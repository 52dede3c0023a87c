package mocks

import (
	"context"
	"time"

	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// TokenCodec is a mock for service.TokenCodec.
type TokenCodec struct {
	mock.Mock
}

func (m *TokenCodec) EncodeAccess(claims *service.AccessClaims) (string, error) {
	args := m.Called(claims)

	return args.String(0), args.Error(1)
}

func (m *TokenCodec) EncodeRefresh(claims *service.RefreshClaims) (string, error) {
	args := m.Called(claims)

	return args.String(0), args.Error(1)
}

func (m *TokenCodec) DecodeAccess(token string) (*service.AccessClaims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*service.AccessClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *TokenCodec) DecodeRefresh(token string) (*service.RefreshClaims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*service.RefreshClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *TokenCodec) AccessTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

func (m *TokenCodec) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// PasswordHasher is a mock for service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// AuthCodeStore is a mock for service.AuthCodeStore.
type AuthCodeStore struct {
	mock.Mock
}

func (m *AuthCodeStore) Save(ctx context.Context, code string, value *entity.AuthCode) error {
	args := m.Called(ctx, code, value)

	return args.Error(0)
}

func (m *AuthCodeStore) Take(ctx context.Context, code string) (*entity.AuthCode, error) {
	args := m.Called(ctx, code)
	if value, ok := args.Get(0).(*entity.AuthCode); ok {
		return value, args.Error(1)
	}

	return nil, args.Error(1)
}
