package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"npi-linker/core/reconcile"
	"npi-linker/core/reference"
	"npi-linker/core/storage"

	"github.com/minio/minio-go/v7"
)

// EnrichmentKey is the block added to every record of the enriched export.
const EnrichmentKey = "npiMatch"

var (
	targetColumns = []string{
		"Target ID", "Target Name", "Profile URL", "City", "State",
	}
	flagColumns = []string{"Has License Data", "Has Contact Data"}

	matchHeader = concat(targetColumns,
		[]string{"Match Confidence", "Match Method"},
		flagColumns,
		[]string{
			"NPI", "Full Name", "Credential", "Practice Address", "Practice Phone",
			"Mailing Phone", "License Numbers", "License States",
			"Enumeration Date", "Last Update Date",
		},
	)
	noMatchHeader = concat(targetColumns, flagColumns)
)

// Exports lists the locations written by Export. A location is empty when
// the export had nothing to write.
type Exports struct {
	Matches   string `json:"matches,omitempty"`
	NoMatches string `json:"no_matches,omitempty"`
	Enriched  string `json:"enriched,omitempty"`
}

// Exporter writes run results under a local directory or an s3:// prefix.
type Exporter struct {
	client storage.Client
	dir    string
}

// NewExporter creates an exporter. client may be nil for local directories.
func NewExporter(client storage.Client, dir string) *Exporter {
	return &Exporter{client: client, dir: dir}
}

// Export writes <name>_matches.csv, <name>_no_matches.csv and
// <name>_enriched.json.
func (e *Exporter) Export(ctx context.Context, name string, records []TargetRecord, results []reconcile.Result) (Exports, error) {
	if name == "" {
		name = "targets"
	}
	byID := make(map[string]reconcile.Resolution, len(results))
	for _, r := range results {
		byID[r.Target.ID] = r.Resolution
	}

	var matched, unmatched [][]string
	for _, rec := range records {
		res := byID[rec.Target.ID]
		if res.Resolved {
			matched = append(matched, matchRow(rec, res))
		} else {
			unmatched = append(unmatched, noMatchRow(rec))
		}
	}

	var out Exports
	var err error
	if out.Matches, err = e.writeCSV(ctx, name+"_matches.csv", matchHeader, matched); err != nil {
		return out, err
	}
	if out.NoMatches, err = e.writeCSV(ctx, name+"_no_matches.csv", noMatchHeader, unmatched); err != nil {
		return out, err
	}
	if len(records) > 0 {
		location := e.location(name + "_enriched.json")
		if err := e.writeJSON(ctx, location, Enrich(records, byID)); err != nil {
			return out, err
		}
		out.Enriched = location
	}
	return out, nil
}

func (e *Exporter) location(file string) string {
	if storage.IsURI(e.dir) {
		return strings.TrimSuffix(e.dir, "/") + "/" + file
	}
	return filepath.Join(e.dir, file)
}

func (e *Exporter) writeCSV(ctx context.Context, file string, header []string, rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	sink, err := reference.ParseSink(ctx, e.location(file), e.client, header)
	if err != nil {
		return "", err
	}
	if err := sink.Append(rows); err != nil {
		sink.Close()
		return "", fmt.Errorf("export %s: %w", sink, err)
	}
	if err := sink.Close(); err != nil {
		return "", fmt.Errorf("export %s: %w", sink, err)
	}
	return sink.String(), nil
}

func (e *Exporter) writeJSON(ctx context.Context, location string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", location, err)
	}

	if !storage.IsURI(location) {
		if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return os.WriteFile(location, buf.Bytes(), 0o644)
	}

	bucket, key, ok := storage.ParseURI(location)
	if !ok {
		return fmt.Errorf("malformed object location %q", location)
	}
	if e.client == nil {
		return fmt.Errorf("storage is not configured for %s", location)
	}
	_, err := e.client.PutObject(ctx, bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", location, err)
	}
	return nil
}

// Enrich copies every input record and adds the EnrichmentKey block.
// Records keep their input order; the input maps are not modified.
func Enrich(records []TargetRecord, byID map[string]reconcile.Resolution) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		copied := make(map[string]any, len(rec.Raw)+1)
		for k, v := range rec.Raw {
			copied[k] = v
		}
		copied[EnrichmentKey] = enrichment(byID[rec.Target.ID])
		out = append(out, copied)
	}
	return out
}

func enrichment(res reconcile.Resolution) map[string]any {
	if !res.Resolved {
		return map[string]any{"found": false}
	}
	block := map[string]any{
		"found":           true,
		"confidence":      string(res.Confidence),
		"matchMethod":     res.Method,
		"npi":             "",
		"fullName":        "",
		"credential":      "",
		"practiceAddress": "",
		"practicePhone":   "",
		"mailingPhone":    "",
		"licenseNumbers":  []string{},
		"licenseStates":   []string{},
		"enumerationDate": "",
		"lastUpdateDate":  "",
	}
	if p := res.Profile; p != nil {
		block["npi"] = p.NPI
		block["fullName"] = p.FullName
		block["credential"] = p.Credential
		block["practiceAddress"] = p.PracticeAddress
		block["practicePhone"] = p.PracticePhone
		block["mailingPhone"] = p.MailingPhone
		block["licenseNumbers"] = p.LicenseNumbers()
		block["licenseStates"] = p.LicenseStates()
		block["enumerationDate"] = p.EnumerationDate
		block["lastUpdateDate"] = p.LastUpdateDate
	}
	return block
}

func matchRow(rec TargetRecord, res reconcile.Resolution) []string {
	row := concat(targetRow(rec), []string{string(res.Confidence), res.Method}, flagRow(rec))
	var p reference.Profile
	if res.Profile != nil {
		p = *res.Profile
	}
	return append(row,
		p.NPI, p.FullName, p.Credential, p.PracticeAddress, p.PracticePhone,
		p.MailingPhone, strings.Join(p.LicenseNumbers(), ", "), strings.Join(p.LicenseStates(), ", "),
		p.EnumerationDate, p.LastUpdateDate,
	)
}

func noMatchRow(rec TargetRecord) []string {
	return concat(targetRow(rec), flagRow(rec))
}

func targetRow(rec TargetRecord) []string {
	t := rec.Target
	return []string{t.ID, t.Name, t.ProfileURL, t.City, t.State}
}

func flagRow(rec TargetRecord) []string {
	return []string{strconv.FormatBool(rec.HasLicenseData), strconv.FormatBool(rec.HasContactData)}
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

