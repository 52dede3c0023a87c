package entity

import "time"

// Platform is a registered third-party consumer of the identity service.
// The token core reads its id for scoping and its host URL for
// callback-origin validation; platform CRUD lives outside this service.
type Platform struct {
	ID         int64     // Numeric identifier used for token scoping.
	Name       string    // Human readable platform name.
	NameHandle string    // Unique display handle, e.g. "soulmate#1".
	HostURL    string    // Registered callback host; authorization callbacks must match its origin.
	CreatedAt  time.Time // Timestamp of when this platform was registered.
	UpdatedAt  time.Time // Timestamp of the last modification to this platform.
}

// PlatformUser binds a User to a Platform with a non-empty set of roles.
// Exactly one membership exists per (user, platform) pair; the row is
// created on first platform login with the default member role.
type PlatformUser struct {
	ID         int64     // Numeric membership identifier.
	UserID     int64     // The member.
	PlatformID int64     // The platform the membership belongs to.
	Roles      Roles     // Never empty while the membership exists.
	User       *User     // Preloaded member record, nil when not fetched.
	Platform   *Platform // Preloaded platform record, nil when not fetched.
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
