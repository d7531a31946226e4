package service

import (
	"strings"

	"github.com/GTDGit/warung_api/internal/utils"
)

// NormalizePhone turns a 10-digit local number into its international form
// by prefixing countryCode. Numbers already starting with '+' are kept when
// the rest is 8 to 15 digits.
func NormalizePhone(countryCode, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if utils.ValidLocalPhone(phone) {
		return countryCode + phone, nil
	}
	if rest, ok := strings.CutPrefix(phone, "+"); ok && len(rest) >= 8 && len(rest) <= 15 && allDigits(rest) {
		return phone, nil
	}
	return "", utils.ErrInvalidPhone
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
