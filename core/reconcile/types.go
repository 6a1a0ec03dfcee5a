package reconcile

import (
	"fmt"

	"npi-linker/core/reference"
)

// Confidence ranks how strongly a reference row is believed to be a target.
type Confidence string

const (
	// None means no reference row has been linked yet.
	None Confidence = "NONE"
	// Medium is a normalized first+last name match only.
	Medium Confidence = "MEDIUM"
	// High is a name match backed by a shared phone number.
	High Confidence = "HIGH"
	// Confirmed is an exact normalized license number match.
	Confirmed Confidence = "CONFIRMED"
)

// Rank orders confidences: None < Medium < High < Confirmed.
func (c Confidence) Rank() int {
	switch c {
	case Confirmed:
		return 3
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// Stronger reports whether c outranks other.
func (c Confidence) Stronger(other Confidence) bool {
	return c.Rank() > other.Rank()
}

// ParseConfidence maps a stored label back to a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	switch c := Confidence(s); c {
	case None, Medium, High, Confirmed:
		return c, nil
	default:
		return None, fmt.Errorf("unknown confidence %q", s)
	}
}

// Method labels written into a Resolution.
const (
	MethodNameContact = "NAME+CONTACT"
	MethodNameOnly    = "NAME_ONLY"
	methodLicense     = "LICENSE:"
)

// MethodLicense labels a license match with the target's original license text.
func MethodLicense(original string) string {
	return methodLicense + original
}

// Policy decides what happens when a second candidate shows up for a
// target that already resolved.
type Policy string

const (
	// FirstMatch keeps the first resolution forever.
	FirstMatch Policy = "first"
	// BestMatch lets a strictly stronger confidence replace a weaker one.
	// Only CONFIRMED targets count as finished.
	BestMatch Policy = "best"
)

// ParsePolicy validates a configured policy name. Empty means FirstMatch.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return FirstMatch, nil
	case FirstMatch, BestMatch:
		return p, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q or %q)", s, FirstMatch, BestMatch)
	}
}

// LicenseRef is one license claimed by a target.
type LicenseRef struct {
	// Number is the license number as supplied.
	Number string `json:"number"`

	// State is the issuing state, informational only.
	State string `json:"state,omitempty"`

	// Type is the license type (e.g. "RN"), informational only.
	Type string `json:"type,omitempty"`
}

// Target is one externally supplied person to link. It is never modified
// after registration.
type Target struct {
	// ID is the caller's identifier for the target.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// FirstName and LastName drive the name tiers.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// City and State are carried through to exports.
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`

	// Licenses drive the CONFIRMED tier.
	Licenses []LicenseRef `json:"licenses,omitempty"`

	// Phones drive the HIGH tier.
	Phones []string `json:"phones,omitempty"`

	// ProfileURL is carried through to exports.
	ProfileURL string `json:"profile_url,omitempty"`
}

// LicenseKey pairs a normalized license with the text it came from.
type LicenseKey struct {
	Normalized string
	Original   string
}

// SearchKeys are the normalized lookups derived from a Target.
type SearchKeys struct {
	Licenses  []LicenseKey
	FirstName string
	LastName  string
	Phones    []string
}

// HasName reports whether both name parts are usable for the name tiers.
func (k SearchKeys) HasName() bool {
	return k.FirstName != "" && k.LastName != ""
}

// Resolution is the outcome recorded for one target.
type Resolution struct {
	// Resolved is false until a match is recorded.
	Resolved bool `json:"resolved"`

	// Confidence is None while unresolved.
	Confidence Confidence `json:"confidence"`

	// Method names the tier that fired, e.g. "LICENSE:RN4455".
	Method string `json:"method,omitempty"`

	// Profile is the matched reference row.
	Profile *reference.Profile `json:"profile,omitempty"`
}

// Entry is a registered target's ID and keys as seen by the cascade.
type Entry struct {
	ID      string
	Keys    SearchKeys
	Current Confidence
}

// Result pairs a target with its resolution.
type Result struct {
	Target     Target     `json:"target"`
	Resolution Resolution `json:"resolution"`
}
