package repository

import (
	"context"
	"time"

	"soulgate/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrRefreshTokenNotFound is returned when a refresh token row is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the interface for refresh token persistence.
// One row per issued refresh credential; rows are revoked in place rather
// than deleted so a replay can still be observed, and only the expiry
// sweeper removes them.
type RefreshTokenRepository interface {
	// Create persists a new refresh token row and fills in its generated id.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByID retrieves a refresh token row by its id. Revocation and expiry
	// are deliberately NOT checked here; the issuance service inspects the
	// row itself so it can distinguish revoked from expired credentials.
	FindByID(ctx context.Context, id int64) (*entity.RefreshToken, error)

	// RevokeByID marks a single row as revoked. Revoking an already revoked
	// row is a no-op, not an error.
	RevokeByID(ctx context.Context, id int64) error

	// RevokeByPlatformUser marks every row scoped to a membership as revoked,
	// forcing re-authentication with fresh role claims.
	RevokeByPlatformUser(ctx context.Context, platformUserID int64) error

	// DeleteExpired removes every row whose expiry is at or before now,
	// including already-revoked rows.
	DeleteExpired(ctx context.Context, now time.Time) error
}
