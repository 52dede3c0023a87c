package entity

import "time"

// RefreshToken represents a long-lived, store-backed session credential.
// One row is one still-possibly-valid refresh credential; the row becomes
// unusable once IsRevoked is set or Expires passes, and is only ever
// deleted by the expiry sweeper.
type RefreshToken struct {
	ID             int64     // Numeric identifier, matched against the tokenId claim.
	UserID         int64     // Links this session to the User it belongs to.
	PlatformUserID *int64    // Optional platform membership scope; nil for plain logins.
	IsRevoked      bool      // Set on role change, quit or removal; revoked rows are rejected on refresh.
	Expires        time.Time // The exact time when this refresh token becomes invalid.
	CreatedAt      time.Time // Timestamp of when this session was created.
	UpdatedAt      time.Time // Timestamp of the last modification, e.g. revocation.
}

// AuthCode is the value stored behind a single-use authorization code.
// It lives only in the code cache for a few minutes and is never persisted.
type AuthCode struct {
	UserID     int64  `json:"userId"`
	PlatformID int64  `json:"platformId"`
	Callback   string `json:"callback"`
	State      string `json:"state"`
}
