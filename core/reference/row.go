package reference

import (
	"strings"

	"npi-linker/core/normalize"
)

// Field is one cell of a reference row. Present is false when the column is
// missing from the header. A record too short to reach a known column yields
// a present, empty field.
type Field struct {
	Value   string
	Present bool
}

// Blank reports whether the field is absent or holds only whitespace.
func (f Field) Blank() bool {
	return !f.Present || strings.TrimSpace(f.Value) == ""
}

// Trimmed returns the value without surrounding whitespace.
func (f Field) Trimmed() string {
	return strings.TrimSpace(f.Value)
}

// Address is one postal address block of a row.
type Address struct {
	Line1  Field
	Line2  Field
	City   Field
	State  Field
	Postal Field
	Phone  Field
}

// Row is one decoded reference record. Raw keeps the original cells for
// pass-through output.
type Row struct {
	NPI             Field
	FirstName       Field
	LastName        Field
	Credential      Field
	Practice        Address
	Mailing         Address
	EnumerationDate Field
	LastUpdateDate  Field
	LicenseNumbers  [Slots]Field
	LicenseStates   [Slots]Field
	TaxonomyCodes   [Slots]Field
	Raw             []string
}

// Phones returns the usable normalized practice and mailing phones, without
// duplicates.
func (r Row) Phones() []string {
	var out []string
	for _, f := range []Field{r.Practice.Phone, r.Mailing.Phone} {
		if f.Blank() {
			continue
		}
		p := normalize.Phone(f.Value)
		if p == "" || (len(out) > 0 && out[0] == p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
