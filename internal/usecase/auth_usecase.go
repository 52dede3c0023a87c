// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"soulgate/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// IssueCodeInput defines the data required to mint a one-time auth code
// for a cross-platform redirect.
type IssueCodeInput struct {
	UserID     int64
	PlatformID int64
	Callback   string
}

// ExchangeCodeInput defines the data a platform backend presents to trade
// an auth code for tokens.
type ExchangeCodeInput struct {
	Code     string
	Callback string
	State    string
}

// --- Output DTOs ---

// TokenPairOutput returns a freshly minted access/refresh token pair.
type TokenPairOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
	User         *entity.User
}

// CodeOutput returns the minted auth code together with its CSRF state.
type CodeOutput struct {
	Code  string
	State string
}

// PlatformTokenOutput returns a platform-scoped token pair plus the
// membership it was minted for.
type PlatformTokenOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	PlatformID   int64
	Roles        entity.Roles
	User         *entity.User
}

// RefreshOutput returns a new access token minted from a refresh token.
type RefreshOutput struct {
	AccessToken string
	ExpiresIn   int64

	// PlatformID and Roles are set only for platform-scoped refreshes,
	// reporting the membership grants the new access token carries.
	PlatformID *int64
	Roles      []string
}

// AuthUsecase defines the interface for token issuance and session
// lifecycle operations.
type AuthUsecase interface {
	// Login verifies credentials and opens a platform-less session.
	Login(ctx context.Context, input LoginInput) (*TokenPairOutput, error)
	// IssueCode mints a single-use auth code for a signed-in user who is
	// being redirected to a platform.
	IssueCode(ctx context.Context, input IssueCodeInput) (*CodeOutput, error)
	// ExchangeCode trades a valid auth code for a platform-scoped token
	// pair, creating the membership on first contact.
	ExchangeCode(ctx context.Context, input ExchangeCodeInput) (*PlatformTokenOutput, error)
	// Refresh mints a new access token from a live, platform-less refresh
	// token. The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)
	// RefreshWithPlatform is Refresh for a platform-scoped session; roles
	// are re-read so the new access token reflects current grants.
	RefreshWithPlatform(ctx context.Context, refreshToken string, platformID int64) (*RefreshOutput, error)
	// Logout revokes the session behind a refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
