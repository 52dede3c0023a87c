package usecase

import (
	"context"

	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/service"
)

// Authorizer decides whether an access token grants a set of roles on a
// target platform. Tokens scoped to the target platform are judged by
// their embedded roles; tokens scoped to the landing platform trigger a
// live membership lookup instead, so landing-platform staff can act on
// other platforms without re-authenticating.
type Authorizer interface {
	Authorize(ctx context.Context, claims *service.AccessClaims, targetPlatformID int64, required entity.Roles) error
}
