// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learnhub-auth/internal/handler"
	"github.com/iliyamo/learnhub-auth/internal/middleware"
	"github.com/iliyamo/learnhub-auth/internal/model"
)

// RegisterRoutes registers routes that never need an identity.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
}

// AuthOptions tunes RegisterAuth.
type AuthOptions struct {
	LoginPath string
	// RedirectAnonymous sends anonymous browser navigations to LoginPath
	// instead of answering 401.
	RedirectAnonymous bool
	// Limiter guards the credential-accepting POST routes; nil disables it.
	Limiter echo.MiddlewareFunc
}

// RegisterAuth installs the guard on every route and registers the auth
// endpoints. POST /google is only registered when a.Federated is set.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g *middleware.Guard, opts AuthOptions) {
	e.Use(g.Identify())

	var limited []echo.MiddlewareFunc
	if opts.Limiter != nil {
		limited = append(limited, opts.Limiter)
	}

	e.POST("/signup", a.Signup, limited...)
	e.POST("/login", a.Login, limited...)
	if a.Federated != nil {
		e.POST("/google", a.Google, limited...)
	}

	e.GET("/logout", a.Logout)
	e.POST("/logout", a.Logout)

	e.GET("/current-user", a.CurrentUser)
	e.GET("/me", a.Me,
		g.RequireAuth(opts.LoginPath, opts.RedirectAnonymous),
		middleware.RequireRole(model.KnownRoles...),
	)
}
