package reference_test

import (
	"bytes"
	"encoding/csv"

	"npi-linker/core/reference"
)

// csvOf renders rows keyed by column name under the given header.
func csvOf(header []string, rows ...map[string]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, r := range rows {
		rec := make([]string, len(header))
		for i, h := range header {
			rec[i] = r[h]
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return buf.String()
}

func matchHeader() []string {
	s := reference.DefaultSchema()
	return []string{
		s.NPI, s.FirstName, s.LastName, s.Credential,
		s.Practice.Line1, s.Practice.City, s.Practice.State, s.Practice.Postal, s.Practice.Phone,
		s.Mailing.Phone,
		s.LicenseNumbers[0], s.LicenseStates[0], s.LicenseNumbers[1],
		s.TaxonomyCodes[0],
	}
}
