package impl

import (
	"context"
	"testing"

	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/domain/service"
	"soulgate/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthorizer(harness *repoHarness) usecase.Authorizer {
	return NewAuthorizerService(harness.txManager, testAuthConfig(), discardLogger())
}

func accessClaims(userID, platformID int64, roles ...string) *service.AccessClaims {
	return &service.AccessClaims{UserID: userID, PlatformID: &platformID, Roles: roles}
}

func TestAuthorizerService_TargetScopedToken(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()
	required := entity.Roles{entity.RoleAdmin}

	err := authorizer.Authorize(ctx, accessClaims(7, 3, "admin"), 3, required)
	require.NoError(t, err)

	err = authorizer.Authorize(ctx, accessClaims(7, 3, "member"), 3, required)
	require.ErrorIs(t, err, domainerrors.ErrNoPermission)

	// Claims are trusted as-is for the target platform; no lookup happens.
	harness.platformUsers.AssertNotCalled(t, "FindByPlatformAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorizerService_LandingTokenUsesLiveMembership(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()
	required := entity.Roles{entity.RoleAdmin}

	// Platform 2 is the landing platform in the test config.
	harness.platformUsers.On("FindByPlatformAndUser", ctx, int64(3), int64(7)).
		Return(adminMembership(11, 3, 7), nil)

	err := authorizer.Authorize(ctx, accessClaims(7, 2, "member"), 3, required)
	require.NoError(t, err)
	harness.platformUsers.AssertCalled(t, "FindByPlatformAndUser", ctx, int64(3), int64(7))
}

func TestAuthorizerService_LandingTokenOnLandingPlatform(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()
	required := entity.Roles{entity.RoleAdmin}

	// Even when the target is the landing platform itself, the live
	// membership wins over the snapshot: the token says member, the
	// current membership says admin.
	harness.platformUsers.On("FindByPlatformAndUser", ctx, int64(2), int64(7)).
		Return(adminMembership(11, 2, 7), nil)

	err := authorizer.Authorize(ctx, accessClaims(7, 2, "member"), 2, required)
	require.NoError(t, err)
	harness.platformUsers.AssertCalled(t, "FindByPlatformAndUser", ctx, int64(2), int64(7))
}

func TestAuthorizerService_LandingTokenWithoutMembership(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()

	harness.platformUsers.On("FindByPlatformAndUser", ctx, int64(3), int64(7)).
		Return(nil, repository.ErrPlatformUserNotFound)

	err := authorizer.Authorize(ctx, accessClaims(7, 2, "admin"), 3, entity.Roles{entity.RoleAdmin})
	require.ErrorIs(t, err, domainerrors.ErrNoPermission)
}

func TestAuthorizerService_ForeignPlatformToken(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()

	err := authorizer.Authorize(ctx, accessClaims(7, 5, "admin"), 3, entity.Roles{entity.RoleAdmin})
	require.ErrorIs(t, err, domainerrors.ErrNoPermission)
}

func TestAuthorizerService_PlatformlessToken(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()

	err := authorizer.Authorize(ctx, &service.AccessClaims{UserID: 7}, 3, nil)
	require.ErrorIs(t, err, domainerrors.ErrNoPermission)

	err = authorizer.Authorize(ctx, nil, 3, nil)
	require.ErrorIs(t, err, domainerrors.ErrNoPermission)
}

func TestAuthorizerService_NoRequiredRoles(t *testing.T) {
	harness := newRepoHarness()
	authorizer := newAuthorizer(harness)
	ctx := context.Background()

	// Any membership on the target platform suffices when no role is required.
	err := authorizer.Authorize(ctx, accessClaims(7, 3, "member"), 3, nil)
	require.NoError(t, err)
}
