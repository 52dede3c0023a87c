// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/url"
	"time"

	"soulgate/config"
	deliverycontext "soulgate/internal/delivery/context"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/repository"
	"soulgate/internal/domain/service"
	"soulgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const authCodeBytes = 32

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	codec     service.TokenCodec
	hasher    service.PasswordHasher
	codeStore service.AuthCodeStore
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	txManager repository.TransactionManager,
	codec service.TokenCodec,
	hasher service.PasswordHasher,
	codeStore service.AuthCodeStore,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		txManager: txManager,
		codec:     codec,
		hasher:    hasher,
		codeStore: codeStore,
		cfg:       cfg,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials and opens a platform-less session.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Logging in", slog.String("email", input.Email))

	var output *usecase.TokenPairOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		// 1. Look up the user; an unknown email and a wrong password are
		// indistinguishable to the caller.
		user, err := userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			return domainerrors.ErrInvalidCredentials
		}

		// 2. Open the session row, then mint the pair around its ID.
		tokenRow := &entity.RefreshToken{
			UserID:  user.ID,
			Expires: time.Now().Add(srv.codec.RefreshTokenTTL()),
		}
		if err := refreshRepo.Create(ctx, tokenRow); err != nil {
			return errors.Wrap(err, "failed to create refresh token")
		}

		pair, err := srv.mintPair(user, tokenRow.ID, nil, nil)
		if err != nil {
			return err
		}

		output = pair

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.Any("error", err), slog.String("email", input.Email))

		return nil, err
	}
	srv.log(ctx).Info("Login succeeded", slog.Int64("user_id", output.User.ID))

	return output, nil
}

// IssueCode mints a single-use auth code for a signed-in user who is being
// redirected to a platform.
func (srv *authService) IssueCode(ctx context.Context, input usecase.IssueCodeInput) (*usecase.CodeOutput, error) {
	srv.log(ctx).Debug("Issuing auth code",
		slog.Int64("user_id", input.UserID),
		slog.Int64("platform_id", input.PlatformID),
	)

	var platform *entity.Platform

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, input.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		found, err := repoFactory.PlatformRepo().FindByID(ctx, input.PlatformID)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformNotFound) {
				return domainerrors.ErrPlatformNotFound
			}

			return errors.Wrap(err, "failed to find platform")
		}
		platform = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := validateCallback(platform, input.Callback); err != nil {
		return nil, err
	}

	code, err := randomCode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate auth code")
	}
	state := uuid.NewString()

	if err := srv.codeStore.Save(ctx, code, &entity.AuthCode{
		UserID:     input.UserID,
		PlatformID: input.PlatformID,
		Callback:   input.Callback,
		State:      state,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store auth code")
	}

	srv.log(ctx).Info("Auth code issued",
		slog.Int64("user_id", input.UserID),
		slog.Int64("platform_id", input.PlatformID),
	)

	return &usecase.CodeOutput{Code: code, State: state}, nil
}

// ExchangeCode trades a valid auth code for a platform-scoped token pair,
// creating the membership on first contact.
func (srv *authService) ExchangeCode(ctx context.Context, input usecase.ExchangeCodeInput) (*usecase.PlatformTokenOutput, error) {
	srv.log(ctx).Debug("Exchanging auth code")

	// Take is atomic; a second exchange of the same code sees nothing.
	stored, err := srv.codeStore.Take(ctx, input.Code)
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			return nil, domainerrors.ErrInvalidCode
		}

		return nil, errors.Wrap(err, "failed to take auth code")
	}

	if stored.Callback != input.Callback {
		return nil, domainerrors.ErrCallbackMismatch
	}
	if stored.State != input.State {
		return nil, domainerrors.ErrInvalidCode
	}

	var output *usecase.PlatformTokenOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		platformUserRepo := repoFactory.PlatformUserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		user, err := userRepo.FindByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		// First contact with the platform enrolls the user as a member.
		membership, err := platformUserRepo.FindByPlatformAndUser(ctx, stored.PlatformID, stored.UserID)
		if errors.Is(err, repository.ErrPlatformUserNotFound) {
			membership = &entity.PlatformUser{
				UserID:     stored.UserID,
				PlatformID: stored.PlatformID,
				Roles:      entity.Roles{entity.RoleMember},
			}
			err = platformUserRepo.Create(ctx, membership)
		}
		if err != nil {
			return errors.Wrap(err, "failed to resolve platform membership")
		}

		tokenRow := &entity.RefreshToken{
			UserID:         user.ID,
			PlatformUserID: &membership.ID,
			Expires:        time.Now().Add(srv.codec.RefreshTokenTTL()),
		}
		if err := refreshRepo.Create(ctx, tokenRow); err != nil {
			return errors.Wrap(err, "failed to create refresh token")
		}

		pair, err := srv.mintPair(user, tokenRow.ID, &membership.PlatformID, membership.Roles)
		if err != nil {
			return err
		}

		output = &usecase.PlatformTokenOutput{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
			PlatformID:   membership.PlatformID,
			Roles:        membership.Roles,
			User:         user,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Code exchange failed", slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Code exchanged",
		slog.Int64("user_id", output.User.ID),
		slog.Int64("platform_id", output.PlatformID),
	)

	return output, nil
}

// Refresh mints a new access token from a live, platform-less refresh token.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.codec.DecodeRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var output *usecase.RefreshOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := srv.checkSession(ctx, repoFactory, claims)
		if err != nil {
			return err
		}

		accessToken, err := srv.codec.EncodeAccess(&service.AccessClaims{
			UserID:   user.ID,
			Username: user.Username,
		})
		if err != nil {
			return errors.Wrap(err, "failed to encode access token")
		}

		output = &usecase.RefreshOutput{
			AccessToken: accessToken,
			ExpiresIn:   int64(srv.codec.AccessTokenTTL().Seconds()),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// RefreshWithPlatform is Refresh for a platform-scoped session; roles are
// re-read so the new access token reflects current grants.
func (srv *authService) RefreshWithPlatform(ctx context.Context, refreshToken string, platformID int64) (*usecase.RefreshOutput, error) {
	claims, err := srv.codec.DecodeRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.PlatformID == nil || *claims.PlatformID != platformID {
		return nil, domainerrors.ErrPlatformMismatch
	}

	var output *usecase.RefreshOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := srv.checkSession(ctx, repoFactory, claims)
		if err != nil {
			return err
		}

		// Roles may have changed since the session opened; read them live.
		membership, err := repoFactory.PlatformUserRepo().FindByPlatformAndUser(ctx, platformID, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformUserNotFound) {
				return domainerrors.ErrPlatformUserNotFound
			}

			return errors.Wrap(err, "failed to find platform membership")
		}

		accessToken, err := srv.codec.EncodeAccess(&service.AccessClaims{
			UserID:     user.ID,
			Username:   user.Username,
			PlatformID: &platformID,
			Roles:      membership.Roles.ToStrings(),
		})
		if err != nil {
			return errors.Wrap(err, "failed to encode access token")
		}

		output = &usecase.RefreshOutput{
			AccessToken: accessToken,
			ExpiresIn:   int64(srv.codec.AccessTokenTTL().Seconds()),
			PlatformID:  &platformID,
			Roles:       membership.Roles.ToStrings(),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// Logout revokes the session behind a refresh token.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := srv.codec.DecodeRefresh(refreshToken)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RefreshTokenRepo().RevokeByID(ctx, claims.TokenID); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrTokenNotFound
			}

			return errors.Wrap(err, "failed to revoke refresh token")
		}

		return nil
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Session revoked", slog.Int64("token_id", claims.TokenID))

	return nil
}

// checkSession verifies the stored session row behind a decoded refresh
// token: it must exist, not be revoked, and not be past its expiry.
func (srv *authService) checkSession(ctx context.Context, repoFactory repository.RepositoryFactory, claims *service.RefreshClaims) (*entity.User, error) {
	tokenRow, err := repoFactory.RefreshTokenRepo().FindByID(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	if tokenRow.IsRevoked {
		return nil, domainerrors.ErrTokenRevoked
	}
	if !tokenRow.Expires.After(time.Now()) {
		return nil, domainerrors.ErrTokenExpired
	}

	user, err := repoFactory.UserRepo().FindByID(ctx, tokenRow.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// mintPair encodes an access/refresh pair for the given user and session.
func (srv *authService) mintPair(user *entity.User, tokenID int64, platformID *int64, roles entity.Roles) (*usecase.TokenPairOutput, error) {
	accessClaims := &service.AccessClaims{
		UserID:     user.ID,
		Username:   user.Username,
		PlatformID: platformID,
	}
	refreshClaims := &service.RefreshClaims{
		TokenID:    tokenID,
		UserID:     user.ID,
		PlatformID: platformID,
	}
	if roles != nil {
		accessClaims.Roles = roles.ToStrings()
		refreshClaims.Roles = roles.ToStrings()
	}

	accessToken, err := srv.codec.EncodeAccess(accessClaims)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode access token")
	}
	refreshToken, err := srv.codec.EncodeRefresh(refreshClaims)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode refresh token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(srv.codec.AccessTokenTTL().Seconds()),
		User:         user,
	}, nil
}

// validateCallback ensures the redirect target is an absolute http(s) URL
// whose origin matches the platform's registered host.
func validateCallback(platform *entity.Platform, callback string) error {
	parsed, err := url.Parse(callback)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return domainerrors.ErrInvalidRedirectURI
	}

	host, err := url.Parse(platform.HostURL)
	if err != nil {
		return errors.Wrap(err, "platform has an invalid host URL")
	}

	if parsed.Scheme != host.Scheme || parsed.Host != host.Host {
		return domainerrors.ErrInvalidRedirectURI
	}

	return nil
}

func randomCode() (string, error) {
	buf := make([]byte, authCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
