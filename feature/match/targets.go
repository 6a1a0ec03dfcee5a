package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"npi-linker/core/reconcile"
	"npi-linker/core/utils"

	"gopkg.in/yaml.v3"
)

// Input formats accepted by LoadTargets.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TargetRecord is one input record: the target derived from it and the
// record as it was read, kept for the enriched export.
type TargetRecord struct {
	Target reconcile.Target
	Raw    map[string]any
	// HasLicenseData is set when the record carried a license list at all.
	HasLicenseData bool
	// HasContactData is set when the record carried a contact enrichment block.
	HasContactData bool
}

// LoadTargetsFile reads a target file, picking the format from its extension.
func LoadTargetsFile(path string) ([]TargetRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets: %w", err)
	}
	defer f.Close()

	return LoadTargets(f, FormatFromPath(path))
}

// FormatFromPath maps .yaml and .yml to FormatYAML and anything else to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadTargets decodes an array of target records.
func LoadTargets(r io.Reader, format string) ([]TargetRecord, error) {
	var raw []map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml targets: %w", err)
		}
	case FormatJSON, "":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read targets: %w", err)
		}
		if raw, err = DecodeJSONRecords(data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported target format %q", format)
	}
	return ParseRecords(raw)
}

// DecodeJSONRecords decodes a JSON array keeping numbers verbatim, so
// numeric ids and license numbers keep their leading zeros and digits.
func DecodeJSONRecords(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json targets: %w", err)
	}
	return raw, nil
}

// ParseRecords converts raw records to targets. Records without an id get a
// positional one ("#1", "#2", ...). Duplicate ids are rejected.
func ParseRecords(raw []map[string]any) ([]TargetRecord, error) {
	out := make([]TargetRecord, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, rec := range raw {
		if rec == nil {
			continue
		}
		tr := parseRecord(rec)
		if tr.Target.ID == "" {
			tr.Target.ID = "#" + strconv.Itoa(i+1)
		}
		if prev, dup := seen[tr.Target.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q (first seen at record %d)", i+1, tr.Target.ID, prev+1)
		}
		seen[tr.Target.ID] = i
		out = append(out, tr)
	}
	return out, nil
}

func parseRecord(rec map[string]any) TargetRecord {
	t := reconcile.Target{
		ID:         str(rec, "id"),
		Name:       str(rec, "name"),
		FirstName:  str(rec, "firstName", "first_name"),
		LastName:   str(rec, "lastName", "last_name"),
		City:       str(rec, "city"),
		State:      str(rec, "state"),
		ProfileURL: str(rec, "profileUrl", "profile_url"),
	}
	tr := TargetRecord{Raw: rec}

	// Nested enrichment blocks first, flat lists after.
	if nursys, ok := asMap(rec["nursys"]); ok {
		if list, ok := nursys["licenses"].([]any); ok {
			tr.HasLicenseData = len(list) > 0
			for _, item := range list {
				if ref, ok := licenseRef(item); ok {
					t.Licenses = append(t.Licenses, ref)
				}
			}
		}
	}
	if list, ok := rec["licenses"].([]any); ok {
		tr.HasLicenseData = tr.HasLicenseData || len(list) > 0
		for _, item := range list {
			if ref, ok := licenseRef(item); ok {
				t.Licenses = append(t.Licenses, ref)
			}
		}
	}

	if pdl, ok := asMap(rec["peopleDataLabs"]); ok {
		tr.HasContactData = true
		t.Phones = append(t.Phones, utils.ToStrings(pdl["phone_numbers"])...)
	}
	t.Phones = append(t.Phones, utils.ToStrings(rec["phones"])...)

	// Explicit flags win, e.g. on records re-read from a flat export.
	if v, ok := rec["hasLicenseData"]; ok {
		tr.HasLicenseData = utils.ToBool(v)
	}
	if v, ok := rec["hasContactData"]; ok {
		tr.HasContactData = utils.ToBool(v)
	}

	tr.Target = t
	return tr
}

// licenseRef accepts either {license|number, state, type} or a bare value.
func licenseRef(item any) (reconcile.LicenseRef, bool) {
	m, ok := asMap(item)
	if !ok {
		n := strings.TrimSpace(utils.ToString(item))
		return reconcile.LicenseRef{Number: n}, n != ""
	}
	ref := reconcile.LicenseRef{
		Number: str(m, "license", "number"),
		State:  str(m, "state"),
		Type:   str(m, "type"),
	}
	return ref, ref.Number != ""
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return strings.TrimSpace(utils.ToString(v))
		}
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}
