package auth

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

// Password and email policy. Kept apart from Hasher: these rules decide
// what input is acceptable, Hasher only deals with digests.
var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*()_\-+={}\[\]|\\:;"'<>,.?/]`)
)

const (
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
	maxEmailLen    = 320
	maxNameLen     = model.MaxNameLen
)

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(3, maxEmailLen),
		validation.Match(emailShape).Error("must be a valid email address"),
		is.EmailFormat,
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(minPasswordLen, maxPasswordLen),
		validation.By(fitsBcrypt),
		validation.Match(hasLower).Error("must contain a lowercase letter"),
		validation.Match(hasUpper).Error("must contain an uppercase letter"),
		validation.Match(hasDigit).Error("must contain a digit"),
		validation.Match(hasSpecial).Error("must contain a special character"),
	}
}

// fitsBcrypt bounds the byte length; Length counts runes.
func fitsBcrypt(v any) error {
	if s, _ := v.(string); len(s) > maxPasswordLen {
		return errors.New("must be at most 72 bytes")
	}
	return nil
}

type registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegistration checks the shape of a signup request. The returned
// error, when not nil, is a validation.Errors keyed by field name.
func ValidateRegistration(fullName, email, password string) error {
	r := registration{FullName: fullName, Email: email, Password: password}
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, maxNameLen)),
		validation.Field(&r.Email, emailRules()...),
		validation.Field(&r.Password, passwordRules()...),
	)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLogin only checks presence and email shape; strength rules are
// not re-applied to existing passwords.
func ValidateLogin(email, password string) error {
	c := credentials{Email: email, Password: password}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, emailRules()...),
		validation.Field(&c.Password, validation.Required, validation.Length(1, maxPasswordLen)),
	)
}
