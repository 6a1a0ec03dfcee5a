package reference

import (
	"fmt"
	"strings"
)

// Slots is the number of repeated license and taxonomy columns per row.
const Slots = 15

// AddressColumns names the columns of one postal address block.
type AddressColumns struct {
	Line1  string
	Line2  string
	City   string
	State  string
	Postal string
	Phone  string
}

// Schema maps row fields to reference column names. It is plain data and is
// never mutated after construction.
type Schema struct {
	NPI             string
	FirstName       string
	LastName        string
	Credential      string
	Practice        AddressColumns
	Mailing         AddressColumns
	EnumerationDate string
	LastUpdateDate  string
	LicenseNumbers  [Slots]string
	LicenseStates   [Slots]string
	TaxonomyCodes   [Slots]string
}

// DefaultSchema returns the column names of the CMS NPPES dissemination file.
func DefaultSchema() Schema {
	s := Schema{
		NPI:        "NPI",
		FirstName:  "Provider First Name",
		LastName:   "Provider Last Name (Legal Name)",
		Credential: "Provider Credential Text",
		Practice: AddressColumns{
			Line1:  "Provider First Line Business Practice Location Address",
			Line2:  "Provider Second Line Business Practice Location Address",
			City:   "Provider Business Practice Location Address City Name",
			State:  "Provider Business Practice Location Address State Name",
			Postal: "Provider Business Practice Location Address Postal Code",
			Phone:  "Provider Business Practice Location Address Telephone Number",
		},
		Mailing: AddressColumns{
			Line1:  "Provider First Line Business Mailing Address",
			Line2:  "Provider Second Line Business Mailing Address",
			City:   "Provider Business Mailing Address City Name",
			State:  "Provider Business Mailing Address State Name",
			Postal: "Provider Business Mailing Address Postal Code",
			Phone:  "Provider Business Mailing Address Telephone Number",
		},
		EnumerationDate: "Provider Enumeration Date",
		LastUpdateDate:  "Last Update Date",
	}
	for i := 0; i < Slots; i++ {
		s.LicenseNumbers[i] = fmt.Sprintf("Provider License Number_%d", i+1)
		s.LicenseStates[i] = fmt.Sprintf("Provider License Number State Code_%d", i+1)
		s.TaxonomyCodes[i] = fmt.Sprintf("Healthcare Provider Taxonomy Code_%d", i+1)
	}
	return s
}

// MatchColumns lists the columns the match cascade reads. A reference file
// missing any of them still scans, but the affected tier can never fire.
func (s Schema) MatchColumns() []string {
	return []string{
		s.NPI, s.FirstName, s.LastName,
		s.Practice.Phone, s.Mailing.Phone,
		s.LicenseNumbers[0], s.TaxonomyCodes[0],
	}
}

type addressBinding struct {
	line1, line2, city, state, postal, phone int
}

// Binding resolves a Schema against one concrete header.
type Binding struct {
	header []string
	width  int

	npi, firstName, lastName, credential int
	practice, mailing                    addressBinding
	enumerationDate, lastUpdateDate      int
	licenseNumbers                       [Slots]int
	licenseStates                        [Slots]int
	taxonomyCodes                        [Slots]int

	missing []string
}

// Bind looks up every schema column in header. Columns that are not found
// decode as absent fields.
func (s Schema) Bind(header []string) *Binding {
	positions := make(map[string]int, len(header))
	clean := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		clean[i] = name
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	b := &Binding{header: clean, width: len(clean)}
	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		if idx, ok := positions[name]; ok {
			return idx
		}
		b.missing = append(b.missing, name)
		return -1
	}
	address := func(cols AddressColumns) addressBinding {
		return addressBinding{
			line1:  lookup(cols.Line1),
			line2:  lookup(cols.Line2),
			city:   lookup(cols.City),
			state:  lookup(cols.State),
			postal: lookup(cols.Postal),
			phone:  lookup(cols.Phone),
		}
	}

	b.npi = lookup(s.NPI)
	b.firstName = lookup(s.FirstName)
	b.lastName = lookup(s.LastName)
	b.credential = lookup(s.Credential)
	b.practice = address(s.Practice)
	b.mailing = address(s.Mailing)
	b.enumerationDate = lookup(s.EnumerationDate)
	b.lastUpdateDate = lookup(s.LastUpdateDate)
	for i := 0; i < Slots; i++ {
		b.licenseNumbers[i] = lookup(s.LicenseNumbers[i])
		b.licenseStates[i] = lookup(s.LicenseStates[i])
		b.taxonomyCodes[i] = lookup(s.TaxonomyCodes[i])
	}
	return b
}

// Header returns the header the binding was built from.
func (b *Binding) Header() []string {
	out := make([]string, len(b.header))
	copy(out, b.header)
	return out
}

// Missing lists schema columns absent from the header, in schema order.
func (b *Binding) Missing() []string {
	out := make([]string, len(b.missing))
	copy(out, b.missing)
	return out
}

// Has reports whether the header carries the named column.
func (b *Binding) Has(column string) bool {
	for _, h := range b.header {
		if h == column {
			return true
		}
	}
	return false
}

// Decode maps one raw record onto a Row.
func (b *Binding) Decode(record []string) Row {
	field := func(idx int) Field {
		if idx < 0 {
			return Field{}
		}
		if idx >= len(record) {
			return Field{Present: true}
		}
		return Field{Value: record[idx], Present: true}
	}
	address := func(a addressBinding) Address {
		return Address{
			Line1:  field(a.line1),
			Line2:  field(a.line2),
			City:   field(a.city),
			State:  field(a.state),
			Postal: field(a.postal),
			Phone:  field(a.phone),
		}
	}

	row := Row{
		NPI:             field(b.npi),
		FirstName:       field(b.firstName),
		LastName:        field(b.lastName),
		Credential:      field(b.credential),
		Practice:        address(b.practice),
		Mailing:         address(b.mailing),
		EnumerationDate: field(b.enumerationDate),
		LastUpdateDate:  field(b.lastUpdateDate),
		Raw:             record,
	}
	for i := 0; i < Slots; i++ {
		row.LicenseNumbers[i] = field(b.licenseNumbers[i])
		row.LicenseStates[i] = field(b.licenseStates[i])
		row.TaxonomyCodes[i] = field(b.taxonomyCodes[i])
	}
	return row
}
