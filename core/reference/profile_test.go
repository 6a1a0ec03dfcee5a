package reference_test

import (
	"testing"

	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
)

func present(v string) reference.Field {
	return reference.Field{Value: v, Present: true}
}

func TestExtract_FullRow(t *testing.T) {
	row := reference.Row{
		NPI:        present("1234567890"),
		FirstName:  present("JANE"),
		LastName:   present("DOE"),
		Credential: present("RN"),
		Practice: reference.Address{
			Line1:  present("1 MAIN ST"),
			Line2:  present("SUITE 2"),
			City:   present("DENVER"),
			State:  present("CO"),
			Postal: present("80202"),
			Phone:  present("303-555-0199"),
		},
		Mailing: reference.Address{
			Line1: present("PO BOX 9"),
			City:  present("DENVER"),
			Phone: present("(303) 555 0199"),
		},
		EnumerationDate: present("05/01/2010"),
		LastUpdateDate:  present("07/08/2022"),
	}
	row.LicenseNumbers[0] = present("RN4455")
	row.LicenseStates[0] = present("CO")
	row.LicenseNumbers[2] = present(" 9988 ")
	row.LicenseNumbers[1] = present("  ")
	row.TaxonomyCodes[0] = present("163W00000X")
	row.TaxonomyCodes[4] = present("364SP0808X")

	p := reference.Extract(row)

	assert.Equal(t, "1234567890", p.NPI)
	assert.Equal(t, "JANE DOE", p.FullName)
	assert.Equal(t, "RN", p.Credential)
	assert.Equal(t, "1 MAIN ST, SUITE 2, DENVER, CO, 80202", p.PracticeAddress)
	assert.Equal(t, "PO BOX 9, DENVER", p.MailingAddress)
	assert.Equal(t, "303-555-0199", p.PracticePhone)
	assert.Empty(t, p.MailingPhone, "mailing phone equal to practice phone is dropped")
	assert.Equal(t, []reference.License{{Number: "RN4455", State: "CO"}, {Number: "9988"}}, p.Licenses)
	assert.Equal(t, []string{"163W00000X", "364SP0808X"}, p.TaxonomyCodes)
	assert.Equal(t, "05/01/2010", p.EnumerationDate)
	assert.Equal(t, "07/08/2022", p.LastUpdateDate)
	assert.Equal(t, []string{"RN4455", "9988"}, p.LicenseNumbers())
	assert.Equal(t, []string{"CO"}, p.LicenseStates())
}

func TestExtract_EmptyRow(t *testing.T) {
	p := reference.Extract(reference.Row{})

	assert.Empty(t, p.NPI)
	assert.Empty(t, p.FullName)
	assert.Empty(t, p.PracticeAddress)
	assert.Empty(t, p.Address())
	assert.Empty(t, p.Phones())
	assert.NotNil(t, p.Licenses)
	assert.Empty(t, p.Licenses)
	assert.NotNil(t, p.TaxonomyCodes)
}

func TestExtract_AddressComposition(t *testing.T) {
	tests := []struct {
		name string
		addr reference.Address
		want string
	}{
		{"Only city and postal", reference.Address{City: present("AURORA"), Postal: present("80010")}, "AURORA, 80010"},
		{"Line two only", reference.Address{Line2: present("FLOOR 3")}, "FLOOR 3"},
		{"Blank components skipped", reference.Address{Line1: present(" "), State: present("CO")}, "CO"},
		{"Nothing", reference.Address{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := reference.Extract(reference.Row{Practice: tt.addr})
			assert.Equal(t, tt.want, p.PracticeAddress)
		})
	}
}

func TestExtract_DistinctPhonesKept(t *testing.T) {
	row := reference.Row{
		Practice: reference.Address{Phone: present("3035550199")},
		Mailing:  reference.Address{Phone: present("7205550100"), City: present("BOULDER")},
	}

	p := reference.Extract(row)

	assert.Equal(t, []string{"3035550199", "7205550100"}, p.Phones())
	assert.Equal(t, "BOULDER", p.Address())
}

func TestRow_Phones(t *testing.T) {
	row := reference.Row{
		Practice: reference.Address{Phone: present("555-0199")},
		Mailing:  reference.Address{Phone: present("+1 303 555 0199")},
	}
	assert.Equal(t, []string{"3035550199"}, row.Phones())

	row.Practice.Phone = present("303.555.0199")
	assert.Equal(t, []string{"3035550199"}, row.Phones())
}
