// Package integrity verifies that the environment can run match and filter
// jobs.
//
// # Checks Provided
//
//   - Source: Opens the reference dataset (local file or s3:// object) and
//     checks its header. Missing match columns degrade the cascade and are
//     reported separately from other missing columns.
//   - Storage: Checks that the configured bucket exists and lists the CSV
//     objects it holds. Can create a missing bucket.
//   - Schema: Validates that the result tables (match_runs, match_results)
//     match the GORM models (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/source : Runs source check (supports ?location=).
//   - GET /integrity/storage : Runs storage check (supports ?fix=true).
//   - GET /integrity/schema : Runs result schema check.
package integrity
