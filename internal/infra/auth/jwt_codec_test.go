package auth

import (
	"testing"
	"time"

	"soulgate/config"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(accessTTL, refreshTTL time.Duration) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTCodec_AccessRoundTrip(t *testing.T) {
	codec, err := NewJWTCodec(testConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	platformID := int64(42)
	token, err := codec.EncodeAccess(&service.AccessClaims{
		UserID:     7,
		Username:   "alice",
		PlatformID: &platformID,
		Roles:      []string{"admin", "member"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.DecodeAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.PlatformID)
	assert.Equal(t, platformID, *claims.PlatformID)
	assert.Equal(t, []string{"admin", "member"}, claims.Roles)
}

func TestJWTCodec_AccessWithoutPlatform(t *testing.T) {
	codec, err := NewJWTCodec(testConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	token, err := codec.EncodeAccess(&service.AccessClaims{UserID: 7, Username: "alice"})
	require.NoError(t, err)

	claims, err := codec.DecodeAccess(token)
	require.NoError(t, err)
	assert.Nil(t, claims.PlatformID)
	assert.Nil(t, claims.Roles)
}

func TestJWTCodec_RefreshRoundTrip(t *testing.T) {
	codec, err := NewJWTCodec(testConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	token, err := codec.EncodeRefresh(&service.RefreshClaims{TokenID: 99, UserID: 7})
	require.NoError(t, err)

	claims, err := codec.DecodeRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, int64(99), claims.TokenID)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Nil(t, claims.PlatformID)
}

func TestJWTCodec_RejectsCrossTokenTypes(t *testing.T) {
	codec, err := NewJWTCodec(testConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	accessToken, err := codec.EncodeAccess(&service.AccessClaims{UserID: 7, Username: "alice"})
	require.NoError(t, err)
	refreshToken, err := codec.EncodeRefresh(&service.RefreshClaims{TokenID: 99, UserID: 7})
	require.NoError(t, err)

	// A refresh token must never decode as an access token, and vice versa.
	// The secrets differ, so the signature check already fails before the
	// tokenType claim is even consulted.
	_, err = codec.DecodeAccess(refreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	_, err = codec.DecodeRefresh(accessToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestJWTCodec_MalformedToken(t *testing.T) {
	codec, err := NewJWTCodec(testConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	_, err = codec.DecodeAccess("not.a.jwt")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	_, err = codec.DecodeRefresh("")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	// Negative TTLs mint tokens that are already expired.
	codec, err := NewJWTCodec(testConfig(-time.Minute, -time.Minute))
	require.NoError(t, err)

	accessToken, err := codec.EncodeAccess(&service.AccessClaims{UserID: 7, Username: "alice"})
	require.NoError(t, err)
	refreshToken, err := codec.EncodeRefresh(&service.RefreshClaims{TokenID: 99, UserID: 7})
	require.NoError(t, err)

	_, err = codec.DecodeAccess(accessToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	_, err = codec.DecodeRefresh(refreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestJWTCodec_RequiresSecrets(t *testing.T) {
	cfg := testConfig(15*time.Minute, 7*24*time.Hour)
	cfg.SecretKey.Access = ""

	_, err := NewJWTCodec(cfg)
	assert.Error(t, err)
}
