package postgres

import (
	"context"
	"time"

	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token row, representing a session.
func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required token information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt
	token.UpdatedAt = tokenM.UpdatedAt

	return nil
}

// FindByID retrieves a refresh token row by primary key. Expiry and
// revocation are NOT checked here; callers need the raw row to tell a
// revoked token apart from an expired one.
func (repo *refreshTokenRepository) FindByID(ctx context.Context, id int64) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).First(&tokenM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// RevokeByID flags a refresh token row as revoked. Revoking an already
// revoked row is a no-op, not an error.
func (repo *refreshTokenRepository) RevokeByID(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("id = ?", id).
		Update("is_revoked", true)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}

// RevokeByPlatformUser flags every refresh token row of a membership as
// revoked. A membership with no sessions is not an error.
func (repo *refreshTokenRepository) RevokeByPlatformUser(ctx context.Context, platformUserID int64) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("platform_user_id = ?", platformUserID).
		Update("is_revoked", true).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteExpired removes every refresh token row, revoked or not, whose
// expiry is at or before the given instant.
func (repo *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if err := repo.db.WithContext(ctx).
		Where("expires <= ?", now).
		Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:             data.ID,
		UserID:         data.UserID,
		PlatformUserID: data.PlatformUserID,
		IsRevoked:      data.IsRevoked,
		Expires:        data.Expires,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:             data.ID,
		UserID:         data.UserID,
		PlatformUserID: data.PlatformUserID,
		IsRevoked:      data.IsRevoked,
		Expires:        data.Expires,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
