// Package service defines domain service interfaces that abstract
// infrastructure concerns away from the use cases.
package service

import "time"

// Token type discriminants embedded in every signed token. Decoding checks
// the discriminant so a refresh token can never be accepted where an access
// token is expected, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessClaims is the payload of a short-lived, stateless access token.
// PlatformID and Roles are only present for platform-scoped sessions; Roles
// is a point-in-time snapshot taken at issuance.
type AccessClaims struct {
	UserID     int64
	Username   string
	PlatformID *int64
	Roles      []string
}

// RefreshClaims is the payload of a long-lived refresh token. TokenID matches
// a refresh_tokens row; the row, not the signature, is the source of truth
// for revocation.
type RefreshClaims struct {
	TokenID    int64
	UserID     int64
	PlatformID *int64
	Roles      []string
}

// TokenCodec encodes and decodes the signed tokens the issuance service
// hands out. Decode failures surface as the domain token errors: malformed
// tokens and bad signatures as ErrInvalidToken, elapsed expiry as
// ErrTokenExpired.
type TokenCodec interface {
	// EncodeAccess signs an access payload with the configured access TTL.
	EncodeAccess(claims *AccessClaims) (string, error)

	// EncodeRefresh signs a refresh payload with the configured refresh TTL.
	EncodeRefresh(claims *RefreshClaims) (string, error)

	// DecodeAccess verifies and unpacks an access token.
	DecodeAccess(tokenString string) (*AccessClaims, error)

	// DecodeRefresh verifies and unpacks a refresh token.
	DecodeRefresh(tokenString string) (*RefreshClaims, error)

	// AccessTokenTTL returns the configured access token lifetime,
	// reported to clients as expires_in.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh token lifetime, used to
	// stamp the expiry on new refresh_tokens rows.
	RefreshTokenTTL() time.Duration
}
