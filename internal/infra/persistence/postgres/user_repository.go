package postgres

import (
	"context"

	"soulgate/internal/domain/entity"
	"soulgate/internal/domain/repository"
	"soulgate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a user by primary key.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).First(&userM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a user by email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toUserDomain(&userM), nil
}

// platformRepository implements the domain.PlatformRepository interface.
type platformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository is the constructor for platformRepository.
func NewPlatformRepository(db *gorm.DB) repository.PlatformRepository {
	return &platformRepository{db: db}
}

// FindByID retrieves a platform by primary key.
func (repo *platformRepository) FindByID(ctx context.Context, id int64) (*entity.Platform, error) {
	var platformM model.PlatformModel
	if err := repo.db.WithContext(ctx).First(&platformM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlatformNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPlatformDomain(&platformM), nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toPlatformDomain(data *model.PlatformModel) *entity.Platform {
	if data == nil {
		return nil
	}

	return &entity.Platform{
		ID:         data.ID,
		Name:       data.Name,
		NameHandle: data.NameHandle,
		HostURL:    data.HostURL,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
