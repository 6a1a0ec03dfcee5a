package classify

import (
	"errors"
	"fmt"
	"strings"

	"npi-linker/core/reference"
)

// Mode selects how taxonomy codes are compared.
type Mode string

const (
	// ModeExact requires the slot value to equal a code.
	ModeExact Mode = "exact"
	// ModePrefix requires the slot value to start with a code.
	ModePrefix Mode = "prefix"
)

// ParseMode validates a mode name. Empty means ModePrefix.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePrefix, nil
	case ModeExact, ModePrefix:
		return m, nil
	default:
		return "", fmt.Errorf("unknown taxonomy match mode %q", s)
	}
}

// Predicates narrow the rows that passed the taxonomy test. Empty values
// are not applied.
type Predicates struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
}

// Describe lists the active predicates in a human readable form.
func (p Predicates) Describe() []string {
	var out []string
	if p.FirstName != "" {
		out = append(out, fmt.Sprintf("first name contains %q", p.FirstName))
	}
	if p.LastName != "" {
		out = append(out, fmt.Sprintf("last name contains %q", p.LastName))
	}
	if p.City != "" {
		out = append(out, fmt.Sprintf("city contains %q", p.City))
	}
	if p.State != "" {
		out = append(out, fmt.Sprintf("state is %q", strings.ToUpper(p.State)))
	}
	return out
}

// ErrNoCodes is returned when a filter is built without taxonomy codes.
var ErrNoCodes = errors.New("at least one taxonomy code is required")

// Filter decides whether a reference row belongs to the classification.
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	codes []string
	mode  Mode

	firstName string
	lastName  string
	city      string
	state     string
}

// NewFilter builds a filter for codes under mode with optional predicates.
func NewFilter(codes []string, mode Mode, preds Predicates) (*Filter, error) {
	clean := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			clean = append(clean, c)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoCodes
	}
	if mode == "" {
		mode = ModePrefix
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	return &Filter{
		codes:     clean,
		mode:      mode,
		firstName: strings.ToLower(strings.TrimSpace(preds.FirstName)),
		lastName:  strings.ToLower(strings.TrimSpace(preds.LastName)),
		city:      strings.ToLower(strings.TrimSpace(preds.City)),
		state:     strings.ToLower(strings.TrimSpace(preds.State)),
	}, nil
}

// Codes returns the configured codes.
func (f *Filter) Codes() []string {
	out := make([]string, len(f.codes))
	copy(out, f.codes)
	return out
}

// Mode returns the comparison mode.
func (f *Filter) Mode() Mode {
	return f.mode
}

// codeMatches compares one slot value against one code.
func (f *Filter) codeMatches(value, code string) bool {
	if f.mode == ModeExact {
		return value == code
	}
	return strings.HasPrefix(value, code)
}

// MatchesTaxonomy reports whether any taxonomy slot matches any code.
func (f *Filter) MatchesTaxonomy(row reference.Row) bool {
	for _, slot := range row.TaxonomyCodes {
		if slot.Blank() {
			continue
		}
		value := strings.ToUpper(slot.Trimmed())
		for _, code := range f.codes {
			if f.codeMatches(value, code) {
				return true
			}
		}
	}
	return false
}

// Qualifies reports whether row passes the taxonomy test and every
// predicate. A predicate whose column is missing from the source is skipped;
// one whose cell is empty fails.
func (f *Filter) Qualifies(row reference.Row) bool {
	if !f.MatchesTaxonomy(row) {
		return false
	}
	if !contains(row.FirstName, f.firstName) {
		return false
	}
	if !contains(row.LastName, f.lastName) {
		return false
	}
	if !contains(row.Practice.City, f.city) {
		return false
	}
	if f.state != "" && row.Practice.State.Present {
		if strings.ToLower(row.Practice.State.Trimmed()) != f.state {
			return false
		}
	}
	return true
}

func contains(field reference.Field, needle string) bool {
	if needle == "" || !field.Present {
		return true
	}
	return strings.Contains(strings.ToLower(field.Value), needle)
}
