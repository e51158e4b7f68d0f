package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learnhub-auth/internal/auth"
)

// Context keys set by Guard.Identify. "user_id" and "role" are kept for
// RequireRole and the rate limiter.
const (
	identityCtxKey = "identity"
	userIDCtxKey   = "user_id"
	roleCtxKey     = "role"
)

// TokenVerifier validates a raw bearer token. *auth.Tokens implements it.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Guard turns the token carried by a request into an identity.
type Guard struct {
	tokens     TokenVerifier
	cookieName string
	log        *slog.Logger
}

func NewGuard(tokens TokenVerifier, cookieName string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{tokens: tokens, cookieName: cookieName, log: logger}
}

// Identify runs on every route. A valid token attaches its identity; an
// absent or invalid one leaves the request anonymous. It never rejects.
func (g *Guard) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := g.extract(c.Request())
			if raw == "" {
				return next(c)
			}
			claims, err := g.tokens.Verify(raw)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired"
				}
				g.log.Debug("token rejected", "reason", reason, "err", err, "path", c.Path())
				return next(c)
			}

			id := claims.Identity()
			c.Set(identityCtxKey, id)
			c.Set(userIDCtxKey, id.AccountID)
			c.Set(roleCtxKey, id.Role)
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// extract reads the cookie first, then the Authorization header.
func (g *Guard) extract(r *http.Request) string {
	if ck, err := r.Cookie(g.cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth rejects anonymous requests with 401 Unauthenticated. When
// redirectHTML is set, a browser navigation (GET accepting text/html) is
// sent to loginPath instead.
func (g *Guard) RequireAuth(loginPath string, redirectHTML bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFrom(c).Anonymous() {
				return next(c)
			}
			r := c.Request()
			if redirectHTML && r.Method == http.MethodGet && strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated"})
		}
	}
}

// IdentityFrom returns the identity Identify attached to c, or the
// anonymous identity.
func IdentityFrom(c echo.Context) auth.Identity {
	if id, ok := c.Get(identityCtxKey).(auth.Identity); ok {
		return id
	}
	return auth.IdentityFromContext(c.Request().Context())
}
