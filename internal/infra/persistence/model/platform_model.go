package model

import (
	"time"

	"soulgate/internal/domain/entity"
)

// PlatformModel mirrors the 'platforms' table.
type PlatformModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"type:varchar(64);not null"`
	NameHandle string `gorm:"type:varchar(64);uniqueIndex;not null"`
	HostURL    string `gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlatformModel) TableName() string {
	return "platforms"
}

// PlatformUserModel mirrors the 'platform_users' join table. Roles are
// stored as a jsonb array so membership rows stay a single record per
// (user, platform) pair.
type PlatformUserModel struct {
	ID         int64        `gorm:"primaryKey;autoIncrement"`
	UserID     int64        `gorm:"not null;uniqueIndex:idx_platform_users_user_platform"`
	PlatformID int64        `gorm:"not null;uniqueIndex:idx_platform_users_user_platform"`
	Roles      entity.Roles `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User     *UserModel     `gorm:"foreignKey:UserID"`
	Platform *PlatformModel `gorm:"foreignKey:PlatformID"`
}

// TableName explicitly sets the table name for GORM.
func (PlatformUserModel) TableName() string {
	return "platform_users"
}
