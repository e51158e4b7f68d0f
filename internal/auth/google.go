package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultGoogleCertsURL is Google's JWKS endpoint for ID token keys.
const DefaultGoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// googleBool accepts both true and "true"; older tokens sent the string.
type googleBool bool

func (b *googleBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = googleBool(strings.EqualFold(s, "true"))
	return nil
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string     `json:"email"`
	EmailVerified googleBool `json:"email_verified"`
	Name          string     `json:"name"`
}

// GoogleVerifier validates Google ID tokens: RS256 signature against
// Google's published keys, audience equal to the configured client id,
// a Google issuer, an unexpired token and a verified email.
type GoogleVerifier struct {
	clientID string
	keyfunc  jwt.Keyfunc
	now      func() time.Time
}

// NewGoogleVerifier returns a verifier resolving signing keys with kf.
func NewGoogleVerifier(clientID string, kf jwt.Keyfunc) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, keyfunc: kf, now: time.Now}
}

// WithClock returns a copy of v that reads the time from now.
func (v *GoogleVerifier) WithClock(now func() time.Time) *GoogleVerifier {
	c := *v
	c.now = now
	return &c
}

// Verify checks assertion and returns the identity it vouches for. Every
// failure wraps ErrAssertionInvalid.
func (v *GoogleVerifier) Verify(_ context.Context, assertion string) (GoogleIdentity, error) {
	if strings.TrimSpace(assertion) == "" {
		return GoogleIdentity{}, fmt.Errorf("%w: empty assertion", ErrAssertionInvalid)
	}
	if v.clientID == "" {
		return GoogleIdentity{}, fmt.Errorf("%w: no client id configured", ErrAssertionInvalid)
	}

	claims := &googleClaims{}
	_, err := jwt.ParseWithClaims(assertion, claims, v.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrAssertionInvalid, err)
	}
	if !googleIssuers[claims.Issuer] {
		return GoogleIdentity{}, fmt.Errorf("%w: unexpected issuer %q", ErrAssertionInvalid, claims.Issuer)
	}
	if claims.Email == "" {
		return GoogleIdentity{}, fmt.Errorf("%w: no email claim", ErrAssertionInvalid)
	}
	if !claims.EmailVerified {
		return GoogleIdentity{}, fmt.Errorf("%w: email not verified", ErrAssertionInvalid)
	}
	return GoogleIdentity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
	}, nil
}

// NewGoogleKeyfunc fetches Google's JWKS and keeps it refreshed in the
// background until ctx is done or EndBackground is called.
func NewGoogleKeyfunc(ctx context.Context, certsURL string, logger *slog.Logger) (*keyfunc.JWKS, error) {
	if certsURL == "" {
		certsURL = DefaultGoogleCertsURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	jwks, err := keyfunc.Get(certsURL, keyfunc.Options{
		Ctx: ctx,
		RefreshErrorHandler: func(err error) {
			logger.Warn("google certs refresh failed", "url", certsURL, "err", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch google certs: %w", err)
	}
	return jwks, nil
}
