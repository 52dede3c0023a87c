package impl

import (
	"context"
	"log/slog"

	"soulgate/config"
	deliverycontext "soulgate/internal/delivery/context"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/usecase"

	"github.com/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// platformUserService implements the PlatformUserUsecase interface.
type platformUserService struct {
	txManager repository.TransactionManager
	cfg       *config.Config
	logger    *slog.Logger
}

// NewPlatformUserService is the constructor for platformUserService.
func NewPlatformUserService(
	txManager repository.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.PlatformUserUsecase {
	return &platformUserService{
		txManager: txManager,
		cfg:       cfg,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *platformUserService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// FindOne retrieves a single membership.
func (srv *platformUserService) FindOne(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error) {
	var membership *entity.PlatformUser

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.PlatformUserRepo().FindByPlatformAndUser(ctx, platformID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformUserNotFound) {
				return domainerrors.ErrPlatformUserNotFound
			}

			return errors.Wrap(err, "failed to find platform membership")
		}
		membership = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return membership, nil
}

// AddUser enrolls a user on a platform. An omitted role set means a plain
// member enrollment.
func (srv *platformUserService) AddUser(ctx context.Context, input usecase.AddUserInput) (*entity.PlatformUser, error) {
	if len(input.Roles) == 0 {
		input.Roles = entity.Roles{entity.RoleMember}
	}
	if err := validateRoles(input.Roles); err != nil {
		return nil, err
	}

	var membership *entity.PlatformUser

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.PlatformRepo().FindByID(ctx, input.PlatformID); err != nil {
			if errors.Is(err, repository.ErrPlatformNotFound) {
				return domainerrors.ErrPlatformNotFound
			}

			return errors.Wrap(err, "failed to find platform")
		}

		if _, err := repoFactory.UserRepo().FindByID(ctx, input.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		platformUserRepo := repoFactory.PlatformUserRepo()

		if input.Roles.Contains(entity.RoleAdmin) {
			if err := srv.checkAdminCeiling(ctx, repoFactory, input.PlatformID); err != nil {
				return err
			}
		}

		membership = &entity.PlatformUser{
			UserID:     input.UserID,
			PlatformID: input.PlatformID,
			Roles:      input.Roles,
		}
		if err := platformUserRepo.Create(ctx, membership); err != nil {
			if errors.Is(err, repository.ErrDuplicatePlatformUser) {
				return domainerrors.ErrDuplicatePlatformUser
			}

			return errors.Wrap(err, "failed to create platform membership")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to add platform member",
			slog.Any("error", err),
			slog.Int64("platform_id", input.PlatformID),
			slog.Int64("user_id", input.UserID),
		)

		return nil, err
	}
	srv.log(ctx).Info("Platform member added",
		slog.Int64("platform_id", input.PlatformID),
		slog.Int64("user_id", input.UserID),
	)

	return membership, nil
}

// SetRoles replaces a member's role set in a single transaction. Demoting
// the last admin is rejected; granting admin past the platform ceiling is
// rejected; on success every session of the member is revoked so stale
// role claims cannot outlive the change.
func (srv *platformUserService) SetRoles(ctx context.Context, input usecase.SetRolesInput) (*entity.PlatformUser, error) {
	if err := validateRoles(input.Roles); err != nil {
		return nil, err
	}

	var membership *entity.PlatformUser

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		platformUserRepo := repoFactory.PlatformUserRepo()

		found, err := platformUserRepo.FindByPlatformAndUser(ctx, input.PlatformID, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformUserNotFound) {
				return domainerrors.ErrPlatformUserNotFound
			}

			return errors.Wrap(err, "failed to find platform membership")
		}

		wasAdmin := found.Roles.Contains(entity.RoleAdmin)
		willBeAdmin := input.Roles.Contains(entity.RoleAdmin)

		if wasAdmin && !willBeAdmin {
			if err := srv.checkLastAdmin(ctx, repoFactory, input.PlatformID); err != nil {
				return err
			}
		}
		if !wasAdmin && willBeAdmin {
			// The member is not an admin yet, so the count covers the
			// other memberships only.
			if err := srv.checkAdminCeiling(ctx, repoFactory, input.PlatformID); err != nil {
				return err
			}
		}

		if err := platformUserRepo.UpdateRoles(ctx, found.ID, input.Roles); err != nil {
			return errors.Wrap(err, "failed to update roles")
		}

		if err := repoFactory.RefreshTokenRepo().RevokeByPlatformUser(ctx, found.ID); err != nil {
			return errors.Wrap(err, "failed to revoke member sessions")
		}

		found.Roles = input.Roles
		membership = found

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to set roles",
			slog.Any("error", err),
			slog.Int64("platform_id", input.PlatformID),
			slog.Int64("user_id", input.UserID),
		)

		return nil, err
	}
	srv.log(ctx).Info("Roles updated",
		slog.Int64("platform_id", input.PlatformID),
		slog.Int64("user_id", input.UserID),
		slog.Any("roles", input.Roles.ToStrings()),
	)

	return membership, nil
}

// RemoveUser deletes a membership and revokes its sessions. Removal by an
// admin is allowed even for the platform's last admin; only self-service
// leaving via Quit is guarded.
func (srv *platformUserService) RemoveUser(ctx context.Context, platformID, userID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return srv.deleteMembership(ctx, repoFactory, platformID, userID, false)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to remove platform member",
			slog.Any("error", err),
			slog.Int64("platform_id", platformID),
			slog.Int64("user_id", userID),
		)

		return err
	}
	srv.log(ctx).Info("Platform member removed",
		slog.Int64("platform_id", platformID),
		slog.Int64("user_id", userID),
	)

	return nil
}

// Quit lets a member leave a platform; the last admin may not quit.
func (srv *platformUserService) Quit(ctx context.Context, platformID, userID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return srv.deleteMembership(ctx, repoFactory, platformID, userID, true)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to quit platform",
			slog.Any("error", err),
			slog.Int64("platform_id", platformID),
			slog.Int64("user_id", userID),
		)

		return err
	}
	srv.log(ctx).Info("Member quit platform",
		slog.Int64("platform_id", platformID),
		slog.Int64("user_id", userID),
	)

	return nil
}

// ListMembers returns a page of a platform's memberships ordered by id.
func (srv *platformUserService) ListMembers(ctx context.Context, input usecase.ListMembersInput) (*usecase.ListMembersOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var output *usecase.ListMembersOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.PlatformRepo().FindByID(ctx, input.PlatformID); err != nil {
			if errors.Is(err, repository.ErrPlatformNotFound) {
				return domainerrors.ErrPlatformNotFound
			}

			return errors.Wrap(err, "failed to find platform")
		}

		members, total, err := repoFactory.PlatformUserRepo().
			FindAllByPlatform(ctx, input.PlatformID, (page-1)*pageSize, pageSize)
		if err != nil {
			return errors.Wrap(err, "failed to list platform members")
		}

		output = &usecase.ListMembersOutput{
			Members:    members,
			TotalCount: total,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// deleteMembership removes a membership row and revokes its sessions.
// When guardLastAdmin is set, an admin who is the platform's only admin
// may not be deleted.
func (srv *platformUserService) deleteMembership(ctx context.Context, repoFactory repository.RepositoryFactory, platformID, userID int64, guardLastAdmin bool) error {
	platformUserRepo := repoFactory.PlatformUserRepo()

	membership, err := platformUserRepo.FindByPlatformAndUser(ctx, platformID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPlatformUserNotFound) {
			return domainerrors.ErrPlatformUserNotFound
		}

		return errors.Wrap(err, "failed to find platform membership")
	}

	if guardLastAdmin && membership.Roles.Contains(entity.RoleAdmin) {
		if err := srv.checkLastAdmin(ctx, repoFactory, platformID); err != nil {
			return err
		}
	}

	if err := repoFactory.RefreshTokenRepo().RevokeByPlatformUser(ctx, membership.ID); err != nil {
		return errors.Wrap(err, "failed to revoke member sessions")
	}

	if err := platformUserRepo.Delete(ctx, membership.ID); err != nil {
		return errors.Wrap(err, "failed to delete platform membership")
	}

	return nil
}

func (srv *platformUserService) checkLastAdmin(ctx context.Context, repoFactory repository.RepositoryFactory, platformID int64) error {
	adminCount, err := repoFactory.PlatformUserRepo().CountAdminsByPlatform(ctx, platformID)
	if err != nil {
		return errors.Wrap(err, "failed to count platform admins")
	}

	if adminCount <= 1 {
		return domainerrors.ErrNoAdminsRemaining
	}

	return nil
}

func (srv *platformUserService) checkAdminCeiling(ctx context.Context, repoFactory repository.RepositoryFactory, platformID int64) error {
	adminCount, err := repoFactory.PlatformUserRepo().CountAdminsByPlatform(ctx, platformID)
	if err != nil {
		return errors.Wrap(err, "failed to count platform admins")
	}

	if adminCount >= int64(srv.cfg.Auth.MaxPlatformAdmins) {
		return domainerrors.ErrMaxAdminRoles
	}

	return nil
}

func validateRoles(roles entity.Roles) error {
	if len(roles) == 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("at least one role is required")
	}
	for _, role := range roles {
		if !role.IsValid() {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown role: " + role.String())
		}
	}

	return nil
}
