// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"soulgate/internal/delivery/http/middleware"
	"soulgate/internal/delivery/http/router/handler"
	"soulgate/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	PlatformUserHandler *handler.PlatformUserHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	platformUserHandler *handler.PlatformUserHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		platformUserHandler: params.PlatformUserHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		// Platform backends trade codes for tokens; no session required.
		authGroup.POST("/verify", r.authHandler.VerifyCode)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		// Minting a code requires a signed-in caller.
		authGroup.POST("/code", r.authHandler.IssueCode, r.authMiddleware.Authenticate)
	}

	// Membership management, scoped to a platform
	platformGroup := e.Group("/platforms/:platform_id")
	platformGroup.Use(r.authMiddleware.Authenticate)
	{
		adminOnly := r.authMiddleware.RequireRoles(entity.RoleAdmin)
		anyMember := r.authMiddleware.RequireRoles(entity.RoleAdmin, entity.RoleMember)

		// Reads are open to every member; writes stay admin-only.
		platformGroup.GET("/users", r.platformUserHandler.ListMembers, anyMember)
		platformGroup.GET("/users/:user_id", r.platformUserHandler.GetMember, anyMember)
		platformGroup.POST("/users", r.platformUserHandler.AddMember, adminOnly)
		platformGroup.PUT("/users/:user_id/roles", r.platformUserHandler.SetRoles, adminOnly)
		platformGroup.DELETE("/users/:user_id", r.platformUserHandler.RemoveMember, adminOnly)

		// Any member may leave on their own.
		platformGroup.DELETE("/quit", r.platformUserHandler.Quit)
	}
}
