package model

import "time"

// RefreshTokenModel mirrors the 'refresh_tokens' table. A revoked row is
// kept in place until the sweeper deletes it after expiry, so re-use of a
// revoked token can be told apart from an unknown one.
type RefreshTokenModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UserID         int64  `gorm:"not null;index"`
	PlatformUserID *int64 `gorm:"index"`
	IsRevoked      bool   `gorm:"not null;default:false"`
	Expires        time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
