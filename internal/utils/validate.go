package utils

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// passwordSpecials is the set of characters counted as "special".
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// PasswordChecks reports each registration password rule separately so the
// client can show which ones are missing.
type PasswordChecks struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Number    bool `json:"number"`
	Special   bool `json:"special"`
}

// OK is true when every rule passes.
func (p PasswordChecks) OK() bool {
	return p.Length && p.Uppercase && p.Lowercase && p.Number && p.Special
}

// CheckPassword evaluates the five password rules.
func CheckPassword(pwd string) PasswordChecks {
	checks := PasswordChecks{Length: len(pwd) >= 8}
	for _, r := range pwd {
		switch {
		case r >= 'A' && r <= 'Z':
			checks.Uppercase = true
		case r >= 'a' && r <= 'z':
			checks.Lowercase = true
		case r >= '0' && r <= '9':
			checks.Number = true
		case strings.ContainsRune(passwordSpecials, r):
			checks.Special = true
		}
	}
	return checks
}

// ValidLocalPhone accepts exactly ten ASCII digits.
func ValidLocalPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// RegisterValidators adds the phone10 and strongpassword tags to gin's
// binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return ValidLocalPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String()).OK()
	})
}
