// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"soulgate/internal/delivery/http/middleware"
	"soulgate/internal/delivery/http/response"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type issueCodeRequest struct {
	PlatformID int64  `json:"platformId" validate:"required"`
	Callback   string `json:"callback" validate:"required,url"`
}

type verifyCodeRequest struct {
	Code     string `json:"code" validate:"required"`
	Callback string `json:"callback" validate:"required,url"`
	State    string `json:"state" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
	PlatformID   *int64 `json:"platformId"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// userView is the safe projection of a user for responses.
type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenPairView struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
	User         *userView `json:"user,omitempty"`
}

type codeView struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type refreshView struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int64    `json:"expiresIn"`
	PlatformID  *int64   `json:"platformId,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

type platformTokenView struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
	PlatformID   int64     `json:"platformId"`
	Roles        []string  `json:"roles"`
	User         *userView `json:"user,omitempty"`
}

func toUserView(user *entity.User) *userView {
	if user == nil {
		return nil
	}

	return &userView{ID: user.ID, Username: user.Username, Email: user.Email}
}

// Login handles the credential login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, tokenPairView{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
		User:         toUserView(output.User),
	}, "Login successful")
}

// IssueCode mints a single-use auth code for the authenticated caller.
func (h *AuthHandler) IssueCode(c echo.Context) error {
	claims := middleware.ClaimsFromEcho(c)
	if claims == nil {
		return domainerrors.ErrInvalidToken
	}

	var input issueCodeRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid auth code input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.IssueCode(c.Request().Context(), usecase.IssueCodeInput{
		UserID:     claims.UserID,
		PlatformID: input.PlatformID,
		Callback:   input.Callback,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, codeView{
		Code:  output.Code,
		State: output.State,
	}, "Auth code issued")
}

// VerifyCode exchanges an auth code for a platform-scoped token pair.
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var input verifyCodeRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid code exchange input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.ExchangeCode(c.Request().Context(), usecase.ExchangeCodeInput{
		Code:     input.Code,
		Callback: input.Callback,
		State:    input.State,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, platformTokenView{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
		PlatformID:   output.PlatformID,
		Roles:        output.Roles.ToStrings(),
		User:         toUserView(output.User),
	}, "Code exchanged")
}

// Refresh mints a new access token from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var input refreshRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	var output *usecase.RefreshOutput
	var err error
	if input.PlatformID != nil {
		output, err = h.uc.RefreshWithPlatform(c.Request().Context(), input.RefreshToken, *input.PlatformID)
	} else {
		output, err = h.uc.Refresh(c.Request().Context(), input.RefreshToken)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, refreshView{
		AccessToken: output.AccessToken,
		ExpiresIn:   output.ExpiresIn,
		PlatformID:  output.PlatformID,
		Roles:       output.Roles,
	}, "Token refreshed")
}

// Logout revokes the session behind a refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var input logoutRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), input.RefreshToken); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out")
}
