package reference

import (
	"strings"

	"npi-linker/core/normalize"
)

// License is one license slot of a provider.
type License struct {
	Number string `json:"number"`
	State  string `json:"state,omitempty"`
}

// Profile is the denormalized view of one matched reference row.
type Profile struct {
	NPI             string    `json:"npi"`
	FullName        string    `json:"full_name"`
	Credential      string    `json:"credential"`
	PracticeAddress string    `json:"practice_address"`
	MailingAddress  string    `json:"mailing_address"`
	PracticePhone   string    `json:"practice_phone"`
	MailingPhone    string    `json:"mailing_phone"`
	Licenses        []License `json:"licenses"`
	TaxonomyCodes   []string  `json:"taxonomy_codes"`
	EnumerationDate string    `json:"enumeration_date"`
	LastUpdateDate  string    `json:"last_update_date"`
}

// Extract builds a Profile from a row. It never fails: absent or blank
// fields simply come out empty.
func Extract(row Row) Profile {
	p := Profile{
		NPI:             row.NPI.Trimmed(),
		FullName:        strings.TrimSpace(row.FirstName.Trimmed() + " " + row.LastName.Trimmed()),
		Credential:      row.Credential.Trimmed(),
		PracticeAddress: composeAddress(row.Practice),
		MailingAddress:  composeAddress(row.Mailing),
		EnumerationDate: row.EnumerationDate.Trimmed(),
		LastUpdateDate:  row.LastUpdateDate.Trimmed(),
		Licenses:        []License{},
		TaxonomyCodes:   []string{},
	}

	if !row.Practice.Phone.Blank() {
		p.PracticePhone = row.Practice.Phone.Trimmed()
	}
	if !row.Mailing.Phone.Blank() && !samePhone(p.PracticePhone, row.Mailing.Phone.Trimmed()) {
		p.MailingPhone = row.Mailing.Phone.Trimmed()
	}

	for i := 0; i < Slots; i++ {
		if num := row.LicenseNumbers[i]; !num.Blank() {
			p.Licenses = append(p.Licenses, License{
				Number: num.Trimmed(),
				State:  row.LicenseStates[i].Trimmed(),
			})
		}
		if code := row.TaxonomyCodes[i]; !code.Blank() {
			p.TaxonomyCodes = append(p.TaxonomyCodes, code.Trimmed())
		}
	}
	return p
}

// Address returns the practice address, or the mailing address when the
// practice location is unknown.
func (p Profile) Address() string {
	if p.PracticeAddress != "" {
		return p.PracticeAddress
	}
	return p.MailingAddress
}

// Phones returns the non-empty raw phone numbers, practice first.
func (p Profile) Phones() []string {
	var out []string
	for _, ph := range []string{p.PracticePhone, p.MailingPhone} {
		if ph != "" {
			out = append(out, ph)
		}
	}
	return out
}

// LicenseNumbers returns the license numbers in slot order.
func (p Profile) LicenseNumbers() []string {
	out := make([]string, 0, len(p.Licenses))
	for _, l := range p.Licenses {
		out = append(out, l.Number)
	}
	return out
}

// LicenseStates returns the license states in slot order, skipping blanks.
func (p Profile) LicenseStates() []string {
	out := make([]string, 0, len(p.Licenses))
	for _, l := range p.Licenses {
		if l.State != "" {
			out = append(out, l.State)
		}
	}
	return out
}

func samePhone(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	na := normalize.Phone(a)
	return na != "" && na == normalize.Phone(b)
}

func composeAddress(a Address) string {
	var parts []string
	if !a.Line1.Blank() {
		parts = append(parts, a.Line1.Trimmed())
	}
	if !a.Line2.Blank() {
		parts = append(parts, a.Line2.Trimmed())
	}

	var locality []string
	for _, f := range []Field{a.City, a.State, a.Postal} {
		if !f.Blank() {
			locality = append(locality, f.Trimmed())
		}
	}
	if len(locality) > 0 {
		parts = append(parts, strings.Join(locality, ", "))
	}
	return strings.Join(parts, ", ")
}
