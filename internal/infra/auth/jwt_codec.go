// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"soulgate/config"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/service"
)

// jwtCodec is a concrete implementation of the TokenCodec interface using HS256 JWTs.
// Access and refresh tokens are signed with separate secrets, and both carry an
// explicit tokenType claim that is checked on decode.
type jwtCodec struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTCodec is the constructor for jwtCodec.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtCodec{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
	}, nil
}

// accessTokenClaims is the wire form of service.AccessClaims.
type accessTokenClaims struct {
	Username   string   `json:"username"`
	PlatformID *int64   `json:"platformId,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	TokenType  string   `json:"tokenType"`
	jwt.RegisteredClaims
}

// refreshTokenClaims is the wire form of service.RefreshClaims.
type refreshTokenClaims struct {
	TokenID    int64    `json:"tokenId"`
	PlatformID *int64   `json:"platformId,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	TokenType  string   `json:"tokenType"`
	jwt.RegisteredClaims
}

// EncodeAccess signs an access payload with the configured access TTL.
func (c *jwtCodec) EncodeAccess(claims *service.AccessClaims) (string, error) {
	wire := &accessTokenClaims{
		Username:         claims.Username,
		PlatformID:       claims.PlatformID,
		Roles:            claims.Roles,
		TokenType:        service.TokenTypeAccess,
		RegisteredClaims: registeredClaims(claims.UserID, c.accessTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString([]byte(c.accessSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// EncodeRefresh signs a refresh payload with the configured refresh TTL.
func (c *jwtCodec) EncodeRefresh(claims *service.RefreshClaims) (string, error) {
	wire := &refreshTokenClaims{
		TokenID:          claims.TokenID,
		PlatformID:       claims.PlatformID,
		Roles:            claims.Roles,
		TokenType:        service.TokenTypeRefresh,
		RegisteredClaims: registeredClaims(claims.UserID, c.refreshTTL),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString([]byte(c.refreshSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign refresh token")
	}

	return signed, nil
}

// DecodeAccess verifies and unpacks an access token.
func (c *jwtCodec) DecodeAccess(tokenString string) (*service.AccessClaims, error) {
	wire := &accessTokenClaims{}
	if err := c.parseInto(tokenString, wire, c.accessSecret); err != nil {
		return nil, err
	}
	if wire.TokenType != service.TokenTypeAccess {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token is not an access token")
	}

	userID, err := subjectUserID(&wire.RegisteredClaims)
	if err != nil {
		return nil, err
	}

	return &service.AccessClaims{
		UserID:     userID,
		Username:   wire.Username,
		PlatformID: wire.PlatformID,
		Roles:      wire.Roles,
	}, nil
}

// DecodeRefresh verifies and unpacks a refresh token.
func (c *jwtCodec) DecodeRefresh(tokenString string) (*service.RefreshClaims, error) {
	wire := &refreshTokenClaims{}
	if err := c.parseInto(tokenString, wire, c.refreshSecret); err != nil {
		return nil, err
	}
	if wire.TokenType != service.TokenTypeRefresh {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token is not a refresh token")
	}

	userID, err := subjectUserID(&wire.RegisteredClaims)
	if err != nil {
		return nil, err
	}

	return &service.RefreshClaims{
		TokenID:    wire.TokenID,
		UserID:     userID,
		PlatformID: wire.PlatformID,
		Roles:      wire.Roles,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *jwtCodec) AccessTokenTTL() time.Duration {
	return c.accessTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (c *jwtCodec) RefreshTokenTTL() time.Duration {
	return c.refreshTTL
}

// parseInto verifies signature and expiry, translating jwt errors into the
// domain token errors.
func (c *jwtCodec) parseInto(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return errors.Wrap(domainerrors.ErrTokenExpired, "token expiry elapsed")
		}

		return errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return errors.Wrap(domainerrors.ErrInvalidToken, "token failed validation")
	}

	return nil
}

func registeredClaims(userID int64, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()

	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func subjectUserID(claims *jwt.RegisteredClaims) (int64, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(domainerrors.ErrInvalidToken, "subject is not a numeric user id")
	}

	return userID, nil
}
