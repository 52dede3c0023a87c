package repository

import (
	"context"

	"soulgate/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for membership persistence.
var (
	// ErrPlatformUserNotFound is returned when a membership is not found.
	ErrPlatformUserNotFound = errors.New("platform user not found")
	// ErrDuplicatePlatformUser is returned when a membership already exists
	// for the same (user, platform) pair.
	ErrDuplicatePlatformUser = errors.New("platform user already exists")
)

// PlatformUserRepository defines the interface for platform membership operations.
// Memberships carry the per-platform role set the authorization layer relies on.
type PlatformUserRepository interface {
	// Create persists a new membership. A unique-constraint violation on
	// (user, platform) is translated to ErrDuplicatePlatformUser.
	Create(ctx context.Context, platformUser *entity.PlatformUser) error

	// FindByPlatformAndUser retrieves the membership for a (platform, user) pair.
	FindByPlatformAndUser(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error)

	// FindAllByPlatform retrieves one page of a platform's memberships ordered
	// by membership id ascending, along with the total membership count.
	FindAllByPlatform(ctx context.Context, platformID int64, offset, limit int) ([]*entity.PlatformUser, int64, error)

	// UpdateRoles persists a new role set for an existing membership.
	UpdateRoles(ctx context.Context, id int64, roles entity.Roles) error

	// Delete removes a membership row.
	Delete(ctx context.Context, id int64) error

	// CountAdminsByPlatform returns how many of a platform's memberships
	// currently include the admin role.
	CountAdminsByPlatform(ctx context.Context, platformID int64) (int64, error)
}
