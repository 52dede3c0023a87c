package usecase

import (
	"context"

	"soulgate/internal/domain/entity"
)

// --- Input DTOs ---

// AddUserInput defines the data required to enroll a user on a platform.
// An empty Roles set enrolls the user as a plain member.
type AddUserInput struct {
	PlatformID int64
	UserID     int64
	Roles      entity.Roles
}

// SetRolesInput defines the data required to replace a member's role set.
type SetRolesInput struct {
	PlatformID int64
	UserID     int64
	Roles      entity.Roles
}

// ListMembersInput defines the pagination window for a membership listing.
type ListMembersInput struct {
	PlatformID int64
	Page       int
	PageSize   int
}

// --- Output DTOs ---

// ListMembersOutput returns one page of memberships plus the total count.
type ListMembersOutput struct {
	Members    []*entity.PlatformUser
	TotalCount int64
}

// PlatformUserUsecase defines the interface for platform membership
// management operations.
type PlatformUserUsecase interface {
	// FindOne retrieves a single membership.
	FindOne(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error)
	// AddUser enrolls a user on a platform, defaulting to the member role
	// when no roles are supplied.
	AddUser(ctx context.Context, input AddUserInput) (*entity.PlatformUser, error)
	// SetRoles replaces a member's role set, enforcing the last-admin and
	// admin-ceiling rules, and revokes the member's sessions.
	SetRoles(ctx context.Context, input SetRolesInput) (*entity.PlatformUser, error)
	// RemoveUser deletes a membership and revokes its sessions. An admin
	// may remove anyone, including the last admin.
	RemoveUser(ctx context.Context, platformID, userID int64) error
	// Quit lets a member leave a platform; the last admin may not quit.
	Quit(ctx context.Context, platformID, userID int64) error
	// ListMembers returns a page of a platform's memberships ordered by id.
	ListMembers(ctx context.Context, input ListMembersInput) (*ListMembersOutput, error)
}
