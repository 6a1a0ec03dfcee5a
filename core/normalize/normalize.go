package normalize

import "strings"

// PhoneDigits is the number of trailing digits kept by Phone.
const PhoneDigits = 10

// DefaultLicensePrefixes returns the credential prefixes boards prepend to
// license numbers. A fresh slice is returned on every call.
func DefaultLicensePrefixes() []string {
	return []string{"TEMP", "RN", "LP", "PN"}
}

// LicenseNormalizer strips a fixed set of leading prefixes from license numbers.
type LicenseNormalizer struct {
	prefixes []string
}

// NewLicenseNormalizer builds a normalizer for the given prefixes.
// With no prefixes the default set is used.
func NewLicenseNormalizer(prefixes ...string) LicenseNormalizer {
	if len(prefixes) == 0 {
		prefixes = DefaultLicensePrefixes()
	}
	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			clean = append(clean, p)
		}
	}
	return LicenseNormalizer{prefixes: clean}
}

// Prefixes returns a copy of the configured prefixes.
func (n LicenseNormalizer) Prefixes() []string {
	out := make([]string, len(n.prefixes))
	copy(out, n.prefixes)
	return out
}

// Normalize trims, upper-cases and removes leading prefixes until none remains.
func (n LicenseNormalizer) Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for s != "" {
		stripped := false
		for _, p := range n.prefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return s
}

var defaultLicense = NewLicenseNormalizer()

// License normalizes a license number with the default prefix set.
func License(raw string) string {
	return defaultLicense.Normalize(raw)
}

// Name trims surrounding whitespace and upper-cases.
func Name(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Phone keeps the last ten ASCII digits of raw, or returns "" when fewer than
// ten digits are present.
func Phone(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) < PhoneDigits {
		return ""
	}
	return string(digits[len(digits)-PhoneDigits:])
}
