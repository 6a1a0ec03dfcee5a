package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Code is one taxonomy code or prefix with its human description.
type Code struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Taxonomy is a named set of codes, loaded from YAML:
//
//	name: nursing
//	mode: prefix
//	codes:
//	  - code: 163W
//	    description: Registered Nurse (RN)
type Taxonomy struct {
	Name  string `yaml:"name"`
	Mode  Mode   `yaml:"mode"`
	Codes []Code `yaml:"codes"`
}

// LoadTaxonomy loads a taxonomy from a YAML file.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if len(tax.Codes) == 0 {
		return nil, fmt.Errorf("taxonomy %s lists no codes", path)
	}
	if tax.Mode == "" {
		tax.Mode = ModePrefix
	}
	if _, err := ParseMode(string(tax.Mode)); err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return &tax, nil
}

// DefaultNurseTaxonomy returns the nursing prefixes matched by default.
func DefaultNurseTaxonomy() Taxonomy {
	return Taxonomy{
		Name: "nursing",
		Mode: ModePrefix,
		Codes: []Code{
			{Code: "163W", Description: "Registered Nurse (RN)"},
			{Code: "164W", Description: "Licensed Practical Nurse (LPN)"},
			{Code: "164X", Description: "Licensed Vocational Nurse (LVN)"},
			{Code: "363L", Description: "Nurse Practitioner (NP/APRN)"},
			{Code: "364S", Description: "Clinical Nurse Specialist (CNS)"},
			{Code: "3675", Description: "Certified Registered Nurse Anesthetist (CRNA)"},
			{Code: "367A", Description: "Advanced Practice Midwife"},
			{Code: "367H", Description: "Certified Nurse Midwife (CNM)"},
		},
	}
}

// LegacyNurseTaxonomy returns the three exact codes used before the prefix
// set. Coverage reports compare against it.
func LegacyNurseTaxonomy() Taxonomy {
	return Taxonomy{
		Name: "nursing-legacy",
		Mode: ModeExact,
		Codes: []Code{
			{Code: "363L00000X", Description: "Nurse Practitioner"},
			{Code: "163W00000X", Description: "Registered Nurse"},
			{Code: "164W00000X", Description: "Licensed Practical Nurse"},
		},
	}
}

// Values returns the bare codes.
func (t Taxonomy) Values() []string {
	out := make([]string, len(t.Codes))
	for i, c := range t.Codes {
		out[i] = c.Code
	}
	return out
}

// Describe returns the description of code, or "Unknown".
func (t Taxonomy) Describe(code string) string {
	for _, c := range t.Codes {
		if strings.EqualFold(c.Code, code) {
			return c.Description
		}
	}
	return "Unknown"
}
