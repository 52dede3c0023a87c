package postgres

import (
	"context"

	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// platformUserRepository implements the domain.PlatformUserRepository interface.
type platformUserRepository struct {
	db *gorm.DB
}

// NewPlatformUserRepository is the constructor for platformUserRepository.
func NewPlatformUserRepository(db *gorm.DB) repository.PlatformUserRepository {
	return &platformUserRepository{db: db}
}

// Create persists a new membership row. The (user_id, platform_id) unique
// index guarantees at most one membership per user per platform.
func (repo *platformUserRepository) Create(ctx context.Context, platformUser *entity.PlatformUser) error {
	platformUserM := fromPlatformUserDomain(platformUser)

	if err := repo.db.WithContext(ctx).Create(platformUserM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlatformUser
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user or platform reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required membership information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create platform membership")
	}

	// Update the entity with generated values
	platformUser.ID = platformUserM.ID
	platformUser.CreatedAt = platformUserM.CreatedAt
	platformUser.UpdatedAt = platformUserM.UpdatedAt

	return nil
}

// FindByPlatformAndUser retrieves the membership of a user on a platform.
func (repo *platformUserRepository) FindByPlatformAndUser(ctx context.Context, platformID, userID int64) (*entity.PlatformUser, error) {
	var platformUserM model.PlatformUserModel
	if err := repo.db.WithContext(ctx).
		Where("platform_id = ? AND user_id = ?", platformID, userID).
		First(&platformUserM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlatformUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPlatformUserDomain(&platformUserM), nil
}

// FindAllByPlatform retrieves one page of a platform's memberships ordered by
// id ascending, together with the total membership count.
func (repo *platformUserRepository) FindAllByPlatform(ctx context.Context, platformID int64, offset, limit int) ([]*entity.PlatformUser, int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.PlatformUserModel{}).
		Where("platform_id = ?", platformID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	var platformUserModels []*model.PlatformUserModel
	if err := query.
		Preload("User").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&platformUserModels).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	platformUsers := make([]*entity.PlatformUser, 0, len(platformUserModels))
	for _, platformUserM := range platformUserModels {
		platformUsers = append(platformUsers, toPlatformUserDomain(platformUserM))
	}

	return platformUsers, total, nil
}

// UpdateRoles replaces the role set of a membership row.
func (repo *platformUserRepository) UpdateRoles(ctx context.Context, id int64, roles entity.Roles) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlatformUserModel{}).
		Where("id = ?", id).
		Update("roles", roles)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlatformUserNotFound
	}

	return nil
}

// Delete removes a membership row by primary key.
func (repo *platformUserRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Delete(&model.PlatformUserModel{}, id)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlatformUserNotFound
	}

	return nil
}

// CountAdminsByPlatform counts memberships on a platform whose role set
// contains the admin role, using jsonb containment.
func (repo *platformUserRepository) CountAdminsByPlatform(ctx context.Context, platformID int64) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PlatformUserModel{}).
		Where("platform_id = ?", platformID).
		Where("roles @> ?", `["admin"]`).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// --- Mapper Functions ---

func toPlatformUserDomain(data *model.PlatformUserModel) *entity.PlatformUser {
	if data == nil {
		return nil
	}

	return &entity.PlatformUser{
		ID:         data.ID,
		UserID:     data.UserID,
		PlatformID: data.PlatformID,
		Roles:      data.Roles,
		User:       toUserDomain(data.User),
		Platform:   toPlatformDomain(data.Platform),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromPlatformUserDomain(data *entity.PlatformUser) *model.PlatformUserModel {
	if data == nil {
		return nil
	}

	return &model.PlatformUserModel{
		ID:         data.ID,
		UserID:     data.UserID,
		PlatformID: data.PlatformID,
		Roles:      data.Roles,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
