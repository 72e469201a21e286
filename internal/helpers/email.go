package helpers

import (
	"regexp"
	"strings"
)

var (
	// accountEmailPattern is the permissive RFC 5322 style check used for
	// user accounts.
	accountEmailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

	// bookingEmailPattern additionally rejects dot runs, dots at either end of
	// the local part and domains without a TLD.
	bookingEmailPattern = regexp.MustCompile("^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*@(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\\.)+[a-z]{2,}$")
)

// NormalizeEmail trims surrounding whitespace and lowercases.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidAccountEmail(email string) bool {
	return accountEmailPattern.MatchString(email)
}

func IsValidBookingEmail(email string) bool {
	return bookingEmailPattern.MatchString(email)
}
