package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

// canonicalPhoneRegex matches the canonical Kenyan MSISDN form: +254 followed by
// a non-zero digit and eight more digits.
var canonicalPhoneRegex = regexp.MustCompile(`^\+254[1-9]\d{8}$`)

// PhoneNumber is a validated Kenyan MSISDN in canonical +254XXXXXXXXX form.
// Equality on the struct value is equality on the canonical form.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber normalizes and validates a raw Kenyan phone number.
// Accepted inputs: "+254XXXXXXXXX", "254XXXXXXXXX" and the local "0XXXXXXXXX"
// form; all normalize to the same canonical value. Anything else fails with
// ErrInvalidPhoneNumber.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	s := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(s, "+254"):
		// already international
	case strings.HasPrefix(s, "254"):
		s = "+" + s
	case strings.HasPrefix(s, "0") && len(s) == 10:
		s = "+254" + s[1:]
	}

	if !canonicalPhoneRegex.MatchString(s) {
		return PhoneNumber{}, fmt.Errorf("%w: %q is not a Kenyan MSISDN", apperrors.ErrInvalidPhoneNumber, raw)
	}
	return PhoneNumber{value: s}, nil
}

// International returns the canonical +254XXXXXXXXX form.
func (p PhoneNumber) International() string {
	return p.value
}

// Safaricom returns the local 0XXXXXXXXX form used by M-Pesa statements.
func (p PhoneNumber) Safaricom() string {
	return "0" + p.value[4:]
}

// IsZero reports whether the value is the unset zero value.
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}

func (p PhoneNumber) String() string {
	return p.value
}
