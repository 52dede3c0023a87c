package impl

import (
	"context"
	"log/slog"

	"soulgate/config"
	deliverycontext "soulgate/internal/delivery/context"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/domain/service"
	"soulgate/internal/usecase"

	"github.com/pkg/errors"
)

// authorizerService implements the Authorizer interface.
type authorizerService struct {
	txManager repository.TransactionManager
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAuthorizerService is the constructor for authorizerService.
func NewAuthorizerService(
	txManager repository.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.Authorizer {
	return &authorizerService{
		txManager: txManager,
		cfg:       cfg,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authorizerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authorize checks whether the access token grants the required roles on
// the target platform. Tokens scoped to the target platform are judged by
// their embedded role claims. Tokens scoped to the landing platform get a
// live membership lookup on the target platform instead, so landing staff
// act with their current grants rather than stale claims.
func (srv *authorizerService) Authorize(ctx context.Context, claims *service.AccessClaims, targetPlatformID int64, required entity.Roles) error {
	if claims == nil || claims.PlatformID == nil {
		return domainerrors.ErrNoPermission
	}

	// Landing tokens always go through the live lookup, even when the
	// target is the landing platform itself, so grants revoked since
	// issuance never sneak back in through the snapshot.
	switch *claims.PlatformID {
	case srv.cfg.Auth.LandingPlatformID:
		return srv.authorizeFromLanding(ctx, claims.UserID, targetPlatformID, required)
	case targetPlatformID:
		roles := entity.RolesFromStrings(claims.Roles)
		if !hasRequired(roles, required) {
			return domainerrors.ErrNoPermission
		}

		return nil
	default:
		srv.log(ctx).Debug("Token scoped to a different platform",
			slog.Int64("token_platform_id", *claims.PlatformID),
			slog.Int64("target_platform_id", targetPlatformID),
		)

		return domainerrors.ErrNoPermission
	}
}

// authorizeFromLanding resolves the caller's live membership on the target
// platform and judges the required roles against it.
func (srv *authorizerService) authorizeFromLanding(ctx context.Context, userID, targetPlatformID int64, required entity.Roles) error {
	var roles entity.Roles

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		membership, err := repoFactory.PlatformUserRepo().FindByPlatformAndUser(ctx, targetPlatformID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformUserNotFound) {
				return domainerrors.ErrNoPermission
			}

			return errors.Wrap(err, "failed to find platform membership")
		}
		roles = membership.Roles

		return nil
	})
	if err != nil {
		return err
	}

	if !hasRequired(roles, required) {
		return domainerrors.ErrNoPermission
	}

	return nil
}

func hasRequired(roles, required entity.Roles) bool {
	if len(required) == 0 {
		return true
	}

	return roles.Intersects(required)
}
