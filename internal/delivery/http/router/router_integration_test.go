package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"soulgate/config"
	"soulgate/internal/delivery/http/middleware"
	"soulgate/internal/delivery/http/router/handler"
	"soulgate/internal/delivery/http/validator"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/service"
	"soulgate/internal/infra/auth"
	"soulgate/internal/mocks"
	"soulgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	server     *echo.Echo
	codec      service.TokenCodec
	authUC     *mocks.AuthUsecase
	platformUC *mocks.PlatformUserUsecase
	authorizer *mocks.Authorizer
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	codec, err := auth.NewJWTCodec(cfg)
	require.NoError(t, err)

	fixture := &routerFixture{
		codec:      codec,
		authUC:     &mocks.AuthUsecase{},
		platformUC: &mocks.PlatformUserUsecase{},
		authorizer: &mocks.Authorizer{},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	r := NewRouter(RouterParams{
		AuthHandler:         handler.NewAuthHandler(fixture.authUC, logger),
		PlatformUserHandler: handler.NewPlatformUserHandler(fixture.platformUC, logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(codec, fixture.authorizer),
	})
	r.RegisterRoutes(e)

	fixture.server = e

	return fixture
}

func (f *routerFixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	return rec
}

func (f *routerFixture) accessToken(t *testing.T, claims *service.AccessClaims) string {
	t.Helper()

	token, err := f.codec.EncodeAccess(claims)
	require.NoError(t, err)

	return token
}

func TestRouter_Login_Success(t *testing.T) {
	fixture := newRouterFixture(t)

	fixture.authUC.On("Login", mock.Anything, usecase.LoginInput{Email: "ada@example.com", Password: "secret"}).
		Return(&usecase.TokenPairOutput{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900}, nil)

	rec := fixture.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"secret"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accessToken":"at"`)
}

func TestRouter_Login_InvalidCredentials(t *testing.T) {
	fixture := newRouterFixture(t)

	fixture.authUC.On("Login", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidCredentials)

	rec := fixture.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestRouter_Login_ValidationFailure(t *testing.T) {
	fixture := newRouterFixture(t)

	rec := fixture.do(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	fixture.authUC.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestRouter_VerifyCode_CallbackMismatch(t *testing.T) {
	fixture := newRouterFixture(t)

	fixture.authUC.On("ExchangeCode", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrCallbackMismatch)

	rec := fixture.do(http.MethodPost, "/auth/verify",
		`{"code":"c","callback":"https://forum.example.com/cb","state":"s"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CALLBACK_MISMATCH")
}

func TestRouter_IssueCode_RequiresAuthentication(t *testing.T) {
	fixture := newRouterFixture(t)

	rec := fixture.do(http.MethodPost, "/auth/code", `{"platformId":3,"callback":"https://forum.example.com/cb"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	fixture.authUC.AssertNotCalled(t, "IssueCode", mock.Anything, mock.Anything)
}

func TestRouter_IssueCode_UsesCallerIdentity(t *testing.T) {
	fixture := newRouterFixture(t)
	token := fixture.accessToken(t, &service.AccessClaims{UserID: 7, Username: "ada"})

	fixture.authUC.On("IssueCode", mock.Anything, usecase.IssueCodeInput{
		UserID:     7,
		PlatformID: 3,
		Callback:   "https://forum.example.com/cb",
	}).Return(&usecase.CodeOutput{Code: "c", State: "s"}, nil)

	rec := fixture.do(http.MethodPost, "/auth/code", `{"platformId":3,"callback":"https://forum.example.com/cb"}`, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"c"`)
}

func TestRouter_ListMembers_RequiresMembership(t *testing.T) {
	fixture := newRouterFixture(t)
	platformID := int64(3)
	token := fixture.accessToken(t, &service.AccessClaims{
		UserID: 7, Username: "ada", PlatformID: &platformID, Roles: []string{"member"},
	})

	// Listing is open to any member role, not admins only.
	fixture.authorizer.On("Authorize", mock.Anything, mock.Anything, int64(3),
		entity.Roles{entity.RoleAdmin, entity.RoleMember}).
		Return(domainerrors.ErrNoPermission)

	rec := fixture.do(http.MethodGet, "/platforms/3/users", "", token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "PERMISSION_DENIED")
	fixture.platformUC.AssertNotCalled(t, "ListMembers", mock.Anything, mock.Anything)
}

func TestRouter_SetRoles_LastAdmin(t *testing.T) {
	fixture := newRouterFixture(t)
	platformID := int64(3)
	token := fixture.accessToken(t, &service.AccessClaims{
		UserID: 7, Username: "ada", PlatformID: &platformID, Roles: []string{"admin"},
	})

	fixture.authorizer.On("Authorize", mock.Anything, mock.Anything, int64(3), mock.Anything).Return(nil)
	fixture.platformUC.On("SetRoles", mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrNoAdminsRemaining)

	rec := fixture.do(http.MethodPut, "/platforms/3/users/7/roles", `{"roles":["member"]}`, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_ADMINS_REMAINING")
}

func TestRouter_SetRoles_UnknownRoleRejected(t *testing.T) {
	fixture := newRouterFixture(t)
	platformID := int64(3)
	token := fixture.accessToken(t, &service.AccessClaims{
		UserID: 7, Username: "ada", PlatformID: &platformID, Roles: []string{"admin"},
	})

	fixture.authorizer.On("Authorize", mock.Anything, mock.Anything, int64(3), mock.Anything).Return(nil)

	rec := fixture.do(http.MethodPut, "/platforms/3/users/7/roles", `{"roles":["admin","bogus"]}`, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	// Unknown roles are rejected outright, not silently filtered.
	fixture.platformUC.AssertNotCalled(t, "SetRoles", mock.Anything, mock.Anything)
}

func TestRouter_Quit_UsesCallerIdentity(t *testing.T) {
	fixture := newRouterFixture(t)
	platformID := int64(3)
	token := fixture.accessToken(t, &service.AccessClaims{
		UserID: 7, Username: "ada", PlatformID: &platformID, Roles: []string{"member"},
	})

	fixture.platformUC.On("Quit", mock.Anything, int64(3), int64(7)).Return(nil)

	rec := fixture.do(http.MethodDelete, "/platforms/3/quit", "", token)

	assert.Equal(t, http.StatusOK, rec.Code)
	fixture.platformUC.AssertCalled(t, "Quit", mock.Anything, int64(3), int64(7))
}

func TestRouter_RejectsRefreshTokenOnProtectedRoute(t *testing.T) {
	fixture := newRouterFixture(t)

	refreshToken, err := fixture.codec.EncodeRefresh(&service.RefreshClaims{TokenID: 99, UserID: 7})
	require.NoError(t, err)

	rec := fixture.do(http.MethodDelete, "/platforms/3/quit", "", refreshToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestRouter_Health(t *testing.T) {
	fixture := newRouterFixture(t)

	rec := fixture.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
