package middleware

import (
	"strconv"
	"strings"

	deliverycontext "soulgate/internal/delivery/context"
	"soulgate/internal/delivery/http/response"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/domain/service"
	"soulgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for access token authentication and
// platform-scoped role authorization.
type AuthMiddleware struct {
	codec      service.TokenCodec
	authorizer usecase.Authorizer
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(codec service.TokenCodec, authorizer usecase.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, authorizer: authorizer}
}

// Authenticate validates the Bearer access token and stores its claims on
// the request context for handlers and role checks.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		claims, err := m.codec.DecodeAccess(tokenString)
		if err != nil {
			return err
		}

		c.Set(string(deliverycontext.KeyClaims), claims)

		return next(c)
	}
}

// RequireRoles is a middleware factory that authorizes the caller against
// the :platform_id path parameter. It must run AFTER Authenticate.
func (m *AuthMiddleware) RequireRoles(required ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromEcho(c)
			if claims == nil {
				return domainerrors.ErrNoPermission
			}

			platformID, err := strconv.ParseInt(c.Param("platform_id"), 10, 64)
			if err != nil {
				return domainerrors.ErrValidationFailed.WrapMessage("platform_id must be an integer")
			}

			if err := m.authorizer.Authorize(c.Request().Context(), claims, platformID, entity.Roles(required)); err != nil {
				return err
			}

			return next(c)
		}
	}
}

// ClaimsFromEcho returns the authenticated claims stored by Authenticate,
// or nil when the request is anonymous.
func ClaimsFromEcho(c echo.Context) *service.AccessClaims {
	if claims, ok := c.Get(string(deliverycontext.KeyClaims)).(*service.AccessClaims); ok {
		return claims
	}

	return nil
}
