package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/middleware"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/repository"
	"github.com/iliyamo/learnhub-auth/internal/service"
)

const requestTimeout = 5 * time.Second

// LocalAuth is implemented by *service.LocalStrategy.
type LocalAuth interface {
	Register(ctx context.Context, in service.RegisterInput) (service.Result, error)
	Login(ctx context.Context, in service.LoginInput) (service.Result, error)
}

// FederatedAuth is implemented by *service.FederatedStrategy.
type FederatedAuth interface {
	Authenticate(ctx context.Context, assertion string) (service.Result, error)
}

// AccountLookup re-reads accounts for GET /me?fresh=true.
type AccountLookup interface {
	FindByID(ctx context.Context, id string) (model.Account, error)
}

// CookieConfig describes the token cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Local     LocalAuth
	Federated FederatedAuth // nil when Google sign-in is not configured
	Accounts  AccountLookup
	Cookie    CookieConfig
	LoginPath string
	// Verbose keeps UserNotFound distinct from InvalidCredentials in
	// responses.
	Verbose bool
	Log     *slog.Logger
}

// ----- DTOs -----

type signupReq struct {
	FullName    string `json:"fullName" form:"fullName"`
	FullNameAlt string `json:"full_name" form:"full_name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type googleReq struct {
	IDAssertion string `json:"idAssertion" form:"idAssertion"`
	IDToken     string `json:"id_token" form:"id_token"`
	Credential  string `json:"credential" form:"credential"`
}

func (r googleReq) assertion() string {
	for _, v := range []string{r.IDAssertion, r.IDToken, r.Credential} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type authResp struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Signup: create a local account and sign it in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.FullName == "" {
		req.FullName = req.FullNameAlt
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.Local.Register(ctx, service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.setTokenCookie(c, res.Token)
	return c.JSON(http.StatusCreated, authResp{Message: "Registered", Redirect: res.Redirect})
}

// Login: check email and password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.Local.Login(ctx, service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return h.fail(c, err)
	}
	h.setTokenCookie(c, res.Token)
	return c.JSON(http.StatusOK, authResp{Message: "LoggedIn", Redirect: res.Redirect})
}

// Google: sign in with a Google ID token.
func (h *AuthHandler) Google(c echo.Context) error {
	if h.Federated == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "NotFound"})
	}
	var req googleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "AssertionInvalid"})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.Federated.Authenticate(ctx, req.assertion())
	if err != nil {
		return h.fail(c, err)
	}
	h.setTokenCookie(c, res.Token)
	return c.JSON(http.StatusOK, authResp{Message: "LoggedIn", Redirect: res.Redirect})
}

// Logout clears the cookie. Tokens are stateless, so a copy kept
// elsewhere stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.LoginPath)
}

// Me returns the caller's identity. With ?fresh=true the account is
// re-read from the store, so role changes and deletions show up before
// the token expires.
func (h *AuthHandler) Me(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if c.QueryParam("fresh") != "true" || h.Accounts == nil {
		return c.JSON(http.StatusOK, id)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	acc, err := h.Accounts.FindByID(ctx, id.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated"})
		}
		h.Log.Error("me: account lookup failed", "account_id", id.AccountID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "InternalError"})
	}
	return c.JSON(http.StatusOK, auth.IdentityOf(acc))
}

// CurrentUser reports the caller's identity, or null when anonymous.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	if id.Anonymous() {
		return c.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": id})
}

func (h *AuthHandler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := service.WithClientIP(c.Request().Context(), c.RealIP())
	return context.WithTimeout(ctx, requestTimeout)
}

func (h *AuthHandler) setTokenCookie(c echo.Context, tok auth.Token) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cookie.Name,
		Value:    tok.Value,
		Path:     "/",
		MaxAge:   int(h.Cookie.TTL / time.Second),
		Expires:  tok.ExpiresAt,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "ValidationError",
		"errors":  map[string]string{"_": "invalid body"},
	})
}

// fail maps strategy errors to responses. Store failures are logged and
// reported without detail.
func (h *AuthHandler) fail(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ValidationError", "errors": verr.Fields})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "EmailTaken"})
	case errors.Is(err, service.ErrUserNotFound):
		if h.Verbose {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "UserNotFound"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "InvalidCredentials"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "InvalidCredentials"})
	case errors.Is(err, service.ErrAssertionInvalid):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "AssertionInvalid"})
	case errors.Is(err, service.ErrAccountLinkRequired):
		return c.JSON(http.StatusConflict, echo.Map{"message": "AccountLinkRequired"})
	default:
		h.Log.Error("auth request failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "InternalError"})
	}
}
