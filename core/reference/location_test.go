package reference_test

import (
	"path/filepath"
	"testing"

	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfine(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		root     string
		location string
		want     string
		wantErr  bool
	}{
		{"Empty passes through", root, "", "", false},
		{"Object location passes through", root, "s3://npi/out.csv", "s3://npi/out.csv", false},
		{"Relative joins root", root, "co.csv", filepath.Join(root, "co.csv"), false},
		{"Nested relative", root, "runs/a/co.csv", filepath.Join(root, "runs", "a", "co.csv"), false},
		{"Absolute inside root", root, filepath.Join(root, "x.csv"), filepath.Join(root, "x.csv"), false},
		{"Dot-dot prefixed name", root, "..co.csv", filepath.Join(root, "..co.csv"), false},
		{"Parent escape", root, "../x.csv", "", true},
		{"Escape through subdir", root, "a/../../x.csv", "", true},
		{"Absolute outside root", root, "/etc/passwd", "", true},
		{"Root itself parent", root, "..", "", true},
		{"No local root", "", "x.csv", "", true},
		{"Bucket root", "s3://npi/data.csv", "x.csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reference.Confine(tt.root, tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, reference.ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReferenceRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "npi"), reference.ReferenceRoot(filepath.Join("data", "npi", "npidata.csv")))
	assert.Equal(t, ".", reference.ReferenceRoot("npidata.csv"))
	assert.Equal(t, "", reference.ReferenceRoot("s3://npi/npidata.csv"))
	assert.Equal(t, "", reference.ReferenceRoot(""))
}
