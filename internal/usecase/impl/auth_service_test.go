package impl

import (
	"context"
	"testing"
	"time"

	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/domain/service"
	"soulgate/internal/mocks"
	"soulgate/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	*repoHarness

	codec     *mocks.TokenCodec
	hasher    *mocks.PasswordHasher
	codeStore *mocks.AuthCodeStore
	service   usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		repoHarness: newRepoHarness(),
		codec:       &mocks.TokenCodec{},
		hasher:      &mocks.PasswordHasher{},
		codeStore:   &mocks.AuthCodeStore{},
	}
	fixture.codec.On("AccessTokenTTL").Return(15 * time.Minute).Maybe()
	fixture.codec.On("RefreshTokenTTL").Return(7 * 24 * time.Hour).Maybe()
	fixture.service = NewAuthService(
		fixture.txManager,
		fixture.codec,
		fixture.hasher,
		fixture.codeStore,
		testAuthConfig(),
		discardLogger(),
	)

	return fixture
}

func TestAuthService_Login_Success(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	user := &entity.User{ID: 7, Username: "ada", Email: "ada@example.com", PasswordHash: "hashed"}

	fixture.users.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	fixture.hasher.On("Check", "secret", "hashed").Return(true)
	fixture.refreshTokens.On("Create", ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.RefreshToken).ID = 99
		}).
		Return(nil)
	fixture.codec.On("EncodeAccess", mock.AnythingOfType("*service.AccessClaims")).Return("access-token", nil)

	var refreshClaims *service.RefreshClaims
	fixture.codec.On("EncodeRefresh", mock.AnythingOfType("*service.RefreshClaims")).
		Run(func(args mock.Arguments) {
			refreshClaims = args.Get(0).(*service.RefreshClaims)
		}).
		Return("refresh-token", nil)

	output, err := fixture.service.Login(ctx, usecase.LoginInput{Email: "ada@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), output.ExpiresIn)

	require.NotNil(t, refreshClaims)
	assert.Equal(t, int64(99), refreshClaims.TokenID)
	assert.Equal(t, int64(7), refreshClaims.UserID)
	assert.Nil(t, refreshClaims.PlatformID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	user := &entity.User{ID: 7, Email: "ada@example.com", PasswordHash: "hashed"}

	fixture.users.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	fixture.hasher.On("Check", "wrong", "hashed").Return(false)

	_, err := fixture.service.Login(ctx, usecase.LoginInput{Email: "ada@example.com", Password: "wrong"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	fixture.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := fixture.service.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "secret"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_IssueCode_Success(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	platform := &entity.Platform{ID: 3, HostURL: "https://forum.example.com"}

	fixture.users.On("FindByID", ctx, int64(7)).Return(&entity.User{ID: 7}, nil)
	fixture.platforms.On("FindByID", ctx, int64(3)).Return(platform, nil)

	var savedCode string
	var savedValue *entity.AuthCode
	fixture.codeStore.On("Save", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*entity.AuthCode")).
		Run(func(args mock.Arguments) {
			savedCode = args.String(1)
			savedValue = args.Get(2).(*entity.AuthCode)
		}).
		Return(nil)

	output, err := fixture.service.IssueCode(ctx, usecase.IssueCodeInput{
		UserID:     7,
		PlatformID: 3,
		Callback:   "https://forum.example.com/auth/callback",
	})

	require.NoError(t, err)
	assert.Equal(t, savedCode, output.Code)
	assert.Len(t, output.Code, authCodeBytes*2)
	assert.Equal(t, savedValue.State, output.State)
	assert.Equal(t, int64(7), savedValue.UserID)
	assert.Equal(t, int64(3), savedValue.PlatformID)
	assert.Equal(t, "https://forum.example.com/auth/callback", savedValue.Callback)
}

func TestAuthService_IssueCode_RejectsForeignCallback(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	platform := &entity.Platform{ID: 3, HostURL: "https://forum.example.com"}

	fixture.users.On("FindByID", ctx, int64(7)).Return(&entity.User{ID: 7}, nil)
	fixture.platforms.On("FindByID", ctx, int64(3)).Return(platform, nil)

	for _, callback := range []string{
		"https://evil.example.org/steal",
		"http://forum.example.com/callback", // scheme downgrade
		"/relative/path",
	} {
		_, err := fixture.service.IssueCode(ctx, usecase.IssueCodeInput{
			UserID:     7,
			PlatformID: 3,
			Callback:   callback,
		})

		require.ErrorIs(t, err, domainerrors.ErrInvalidRedirectURI, callback)
	}
}

func TestAuthService_ExchangeCode_FirstContactEnrollsMember(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	stored := &entity.AuthCode{UserID: 7, PlatformID: 3, Callback: "https://forum.example.com/cb", State: "state-1"}
	user := &entity.User{ID: 7, Username: "ada"}

	fixture.codeStore.On("Take", ctx, "code-1").Return(stored, nil)
	fixture.users.On("FindByID", ctx, int64(7)).Return(user, nil)
	fixture.platformUsers.On("FindByPlatformAndUser", ctx, int64(3), int64(7)).
		Return(nil, repository.ErrPlatformUserNotFound)
	var created *entity.PlatformUser
	fixture.platformUsers.On("Create", ctx, mock.AnythingOfType("*entity.PlatformUser")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.PlatformUser)
			created.ID = 11
		}).
		Return(nil)
	var tokenRow *entity.RefreshToken
	fixture.refreshTokens.On("Create", ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(args mock.Arguments) {
			tokenRow = args.Get(1).(*entity.RefreshToken)
			tokenRow.ID = 99
		}).
		Return(nil)
	fixture.codec.On("EncodeAccess", mock.AnythingOfType("*service.AccessClaims")).Return("access-token", nil)
	fixture.codec.On("EncodeRefresh", mock.AnythingOfType("*service.RefreshClaims")).Return("refresh-token", nil)

	output, err := fixture.service.ExchangeCode(ctx, usecase.ExchangeCodeInput{
		Code:     "code-1",
		Callback: "https://forum.example.com/cb",
		State:    "state-1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), output.PlatformID)
	assert.Equal(t, entity.Roles{entity.RoleMember}, output.Roles)

	require.NotNil(t, created)
	assert.Equal(t, entity.Roles{entity.RoleMember}, created.Roles)

	require.NotNil(t, tokenRow)
	require.NotNil(t, tokenRow.PlatformUserID)
	assert.Equal(t, int64(11), *tokenRow.PlatformUserID)
}

func TestAuthService_ExchangeCode_CallbackMismatch(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	stored := &entity.AuthCode{UserID: 7, PlatformID: 3, Callback: "https://forum.example.com/cb", State: "state-1"}

	fixture.codeStore.On("Take", ctx, "code-1").Return(stored, nil)

	_, err := fixture.service.ExchangeCode(ctx, usecase.ExchangeCodeInput{
		Code:     "code-1",
		Callback: "https://forum.example.com/other",
		State:    "state-1",
	})

	require.ErrorIs(t, err, domainerrors.ErrCallbackMismatch)
}

func TestAuthService_ExchangeCode_StateMismatch(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	stored := &entity.AuthCode{UserID: 7, PlatformID: 3, Callback: "https://forum.example.com/cb", State: "state-1"}

	fixture.codeStore.On("Take", ctx, "code-1").Return(stored, nil)

	_, err := fixture.service.ExchangeCode(ctx, usecase.ExchangeCodeInput{
		Code:     "code-1",
		Callback: "https://forum.example.com/cb",
		State:    "state-2",
	})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCode)
}

func TestAuthService_ExchangeCode_SingleUse(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	// The store already gave the code away; a second take finds nothing.
	fixture.codeStore.On("Take", ctx, "spent-code").Return(nil, service.ErrCodeNotFound)

	_, err := fixture.service.ExchangeCode(ctx, usecase.ExchangeCodeInput{
		Code:     "spent-code",
		Callback: "https://forum.example.com/cb",
		State:    "state-1",
	})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCode)
}

func TestAuthService_Refresh_DoesNotRotate(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	claims := &service.RefreshClaims{TokenID: 99, UserID: 7}
	tokenRow := &entity.RefreshToken{ID: 99, UserID: 7, Expires: time.Now().Add(time.Hour)}
	user := &entity.User{ID: 7, Username: "ada"}

	fixture.codec.On("DecodeRefresh", "refresh-token").Return(claims, nil)
	fixture.refreshTokens.On("FindByID", ctx, int64(99)).Return(tokenRow, nil)
	fixture.users.On("FindByID", ctx, int64(7)).Return(user, nil)
	fixture.codec.On("EncodeAccess", mock.AnythingOfType("*service.AccessClaims")).Return("new-access", nil)

	// The same refresh token stays valid across consecutive uses.
	for range 2 {
		output, err := fixture.service.Refresh(ctx, "refresh-token")

		require.NoError(t, err)
		assert.Equal(t, "new-access", output.AccessToken)
	}

	fixture.refreshTokens.AssertNotCalled(t, "RevokeByID", mock.Anything, mock.Anything)
	fixture.refreshTokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	claims := &service.RefreshClaims{TokenID: 99, UserID: 7}
	tokenRow := &entity.RefreshToken{ID: 99, UserID: 7, IsRevoked: true, Expires: time.Now().Add(time.Hour)}

	fixture.codec.On("DecodeRefresh", "refresh-token").Return(claims, nil)
	fixture.refreshTokens.On("FindByID", ctx, int64(99)).Return(tokenRow, nil)

	_, err := fixture.service.Refresh(ctx, "refresh-token")

	require.ErrorIs(t, err, domainerrors.ErrTokenRevoked)
}

func TestAuthService_Refresh_ExpiredRow(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	claims := &service.RefreshClaims{TokenID: 99, UserID: 7}
	tokenRow := &entity.RefreshToken{ID: 99, UserID: 7, Expires: time.Now().Add(-time.Minute)}

	fixture.codec.On("DecodeRefresh", "refresh-token").Return(claims, nil)
	fixture.refreshTokens.On("FindByID", ctx, int64(99)).Return(tokenRow, nil)

	_, err := fixture.service.Refresh(ctx, "refresh-token")

	require.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthService_Refresh_UnknownRow(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	claims := &service.RefreshClaims{TokenID: 99, UserID: 7}

	fixture.codec.On("DecodeRefresh", "refresh-token").Return(claims, nil)
	fixture.refreshTokens.On("FindByID", ctx, int64(99)).Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := fixture.service.Refresh(ctx, "refresh-token")

	require.ErrorIs(t, err, domainerrors.ErrTokenNotFound)
}

func TestAuthService_RefreshWithPlatform_RereadsRoles(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	platformID := int64(3)
	claims := &service.RefreshClaims{TokenID: 99, UserID: 7, PlatformID: &platformID, Roles: []string{"member"}}
	tokenRow := &entity.RefreshToken{ID: 99, UserID: 7, Expires: time.Now().Add(time.Hour)}
	user := &entity.User{ID: 7, Username: "ada"}
	// Promoted since the session opened.
	membership := &entity.PlatformUser{ID: 11, UserID: 7, PlatformID: 3, Roles: entity.Roles{entity.RoleAdmin}}

	fixture.codec.On("DecodeRefresh", "refresh-token").Return(claims, nil)
	fixture.refreshTokens.On("FindByID", ctx, int64(99)).Return(tokenRow, nil)
	fixture.users.On("FindByID", ctx, int64(7)).Return(user, nil)
	fixture.platformUsers.On("FindByPlatformAndUser", ctx, int64(3), int64(7)).Return(membership, nil)

	var encoded *service.AccessClaims
	fixture.codec.On("EncodeAccess", mock.AnythingOfType("*service.AccessClaims")).
		Run(func(args mock.Arguments) {
			encoded = args.Get(0).(*service.AccessClaims)
		}).
		Return("new-access", nil)

	output, err := fixture.service.RefreshWithPlatform(ctx, "refresh-token", 3)

	require.NoError(t, err)
	assert.Equal(t, "new-access", output.AccessToken)
	require.NotNil(t, encoded)
	assert.Equal(t, []string{"admin"}, encoded.Roles)
}

func TestAuthService_RefreshWithPlatform_Mismatch(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	platformID := int64(3)

	fixture.codec.On("DecodeRefresh", "refresh-token").
		Return(&service.RefreshClaims{TokenID: 99, UserID: 7, PlatformID: &platformID}, nil)

	_, err := fixture.service.RefreshWithPlatform(ctx, "refresh-token", 4)
	require.ErrorIs(t, err, domainerrors.ErrPlatformMismatch)

	fixture.codec.ExpectedCalls = nil
	fixture.codec.On("DecodeRefresh", "plain-token").
		Return(&service.RefreshClaims{TokenID: 99, UserID: 7}, nil)

	_, err = fixture.service.RefreshWithPlatform(ctx, "plain-token", 4)
	require.ErrorIs(t, err, domainerrors.ErrPlatformMismatch)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	fixture.codec.On("DecodeRefresh", "refresh-token").
		Return(&service.RefreshClaims{TokenID: 99, UserID: 7}, nil)
	fixture.refreshTokens.On("RevokeByID", ctx, int64(99)).Return(nil)

	err := fixture.service.Logout(ctx, "refresh-token")

	require.NoError(t, err)
	fixture.refreshTokens.AssertCalled(t, "RevokeByID", ctx, int64(99))
}
