// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account registered with the identity service. The token core
// treats user records as read-only input; registration and profile editing
// live outside this service.
type User struct {
	ID           int64     // Numeric identifier, also embedded in token payloads.
	Username     string    // Display name, carried in access token claims.
	Email        string    // Login identifier for credential verification.
	PasswordHash string    // Bcrypt hash of the user's password.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}
