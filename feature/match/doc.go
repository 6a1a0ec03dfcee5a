// Package match links externally sourced target records (people known by
// name, license numbers and phone numbers) to provider rows of the reference
// dataset.
//
// # Flow
//
//  1. LoadTargets reads a JSON or YAML array of target records. Nested
//     license lists (nursys.licenses) and contact blocks
//     (peopleDataLabs.phone_numbers) are flattened into reconcile.Target.
//  2. Service.Run registers the targets, opens the reference source (local
//     path or s3:// object), and drives a reconcile.Cascade over it with a
//     pipeline.Controller. The scan stops as soon as every target is settled.
//  3. The Report carries run stats, a summary per confidence tier and every
//     target's resolution. With Export set, three files are written:
//     <name>_matches.csv, <name>_no_matches.csv and <name>_enriched.json
//     (each input record plus an "npiMatch" block).
//  4. With a database configured, each run and its results are stored in
//     match_runs and match_results.
//
// # HTTP Endpoints
//
//   - POST /match : Runs a match over the posted targets.
//   - GET /match/runs/:id : Returns a stored run.
package match
