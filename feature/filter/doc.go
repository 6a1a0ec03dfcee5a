// Package filter extracts the subset of reference rows that belong to a
// provider class, identified by taxonomy codes.
//
// A row qualifies when any of its 15 taxonomy slots matches one of the codes
// (exactly, or by prefix in prefix mode) and every configured predicate
// holds. Qualifying rows are written verbatim, in source order, under the
// source header, to a local CSV or an s3:// object.
//
// Coverage compares how many rows the legacy exact nursing codes catch
// against the configured taxonomy, with a per-code breakdown.
//
// # HTTP Endpoints
//
//   - POST /filter : Runs a classification.
//   - GET /filter/coverage : Runs a coverage analysis (supports ?max_chunks=N).
package filter
