// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"soulgate/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for the read-only lookups the token core performs.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPlatformNotFound is returned when a platform is not found.
	ErrPlatformNotFound = errors.New("platform not found")
)

// UserRepository exposes the user reads the token core needs. User records
// are owned by the account service; this repository never mutates them.
type UserRepository interface {
	// FindByID retrieves a single user by their numeric id.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their login email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// PlatformRepository exposes the platform reads the token core needs,
// primarily the registered host for callback-origin validation.
type PlatformRepository interface {
	// FindByID retrieves a single platform by its numeric id.
	FindByID(ctx context.Context, id int64) (*entity.Platform, error)
}
