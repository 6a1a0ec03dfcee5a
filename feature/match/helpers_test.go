package match_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"npi-linker/core/database"
	"npi-linker/core/reference"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var schema = reference.DefaultSchema()

var referenceHeader = []string{
	schema.NPI, schema.FirstName, schema.LastName, schema.Credential,
	schema.Practice.Line1, schema.Practice.City, schema.Practice.State, schema.Practice.Postal,
	schema.Practice.Phone, schema.Mailing.Phone,
	schema.LicenseNumbers[0], schema.LicenseStates[0],
	schema.EnumerationDate, schema.LastUpdateDate,
}

// writeReference writes a reference CSV with the given rows to a temp dir.
func writeReference(t *testing.T, rows ...map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(referenceHeader))
	for _, r := range rows {
		rec := make([]string, len(referenceHeader))
		for i, h := range referenceHeader {
			rec[i] = r[h]
		}
		require.NoError(t, w.Write(rec))
	}
	w.Flush()

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func providerRow(npi, first, last, license, phone string) map[string]string {
	return map[string]string{
		schema.NPI:               npi,
		schema.FirstName:         first,
		schema.LastName:          last,
		schema.Credential:        "RN",
		schema.Practice.Line1:    "100 Main St",
		schema.Practice.City:     "DENVER",
		schema.Practice.State:    "CO",
		schema.Practice.Postal:   "80202",
		schema.Practice.Phone:    phone,
		schema.LicenseNumbers[0]: license,
		schema.LicenseStates[0]:  "CO",
		schema.EnumerationDate:   "01/02/2010",
		schema.LastUpdateDate:    "03/04/2020",
	}
}

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

const targetsJSON = `[
  {
    "id": "fb-1",
    "name": "Jane Doe",
    "firstName": "Jane",
    "lastName": "Doe",
    "city": "Denver",
    "state": "CO",
    "profileUrl": "https://example.com/jane",
    "nursys": {"licenses": [{"license": "4455", "state": "CO", "type": "RN"}]}
  },
  {
    "id": "fb-2",
    "name": "Ann Lee",
    "firstName": "Ann",
    "lastName": "Lee",
    "peopleDataLabs": {"phone_numbers": ["+1 (720) 555-0100", "555"]}
  },
  {
    "id": "fb-3",
    "name": "Zed Quill",
    "firstName": "Zed",
    "lastName": "Quill"
  }
]`
