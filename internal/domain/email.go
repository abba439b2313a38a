package domain

import (
	"net/mail"
	"strings"
)

const (
	maxLocalPartLength = 64
	maxDomainLength    = 255
	maxLabelLength     = 63
)

// Email is a syntactically valid email address.
type Email struct {
	value string
}

// ParseEmail validates raw and returns it as an Email.
// Display names, surrounding whitespace and comments are rejected: the
// input must be a bare addr-spec.
func ParseEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, &ValidationError{Field: "email", Reason: "must not be empty"}
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return Email{}, &ValidationError{Field: "email", Reason: "is not a valid email address"}
	}

	at := strings.LastIndexByte(raw, '@')
	local, domain := raw[:at], raw[at+1:]
	if len(local) > maxLocalPartLength {
		return Email{}, &ValidationError{Field: "email", Reason: "local part is too long"}
	}
	if !validDomain(domain) {
		return Email{}, &ValidationError{Field: "email", Reason: "domain is not valid"}
	}

	return Email{value: raw}, nil
}

// String returns the address as it was submitted.
func (e Email) String() string {
	return e.value
}

func validDomain(domain string) bool {
	if domain == "" || len(domain) > maxDomainLength {
		return false
	}
	// Address literals such as [127.0.0.1] are accepted by net/mail already.
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return true
	}

	for label := range strings.SplitSeq(domain, ".") {
		if label == "" || len(label) > maxLabelLength {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !isLabelRune(r) {
				return false
			}
		}
	}
	return true
}

func isLabelRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		return true
	// Internationalized domains are allowed in their Unicode form.
	case r > 0x7f:
		return true
	default:
		return false
	}
}
