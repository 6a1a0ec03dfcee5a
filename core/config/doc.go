// Package config provides configuration management for npi-linker.
//
// It uses Viper to load configuration from environment variables and an
// optional .env file. Defaults live next to each field in `default` struct
// tags and are registered by reflection, so every key can be overridden by
// its upper-cased, underscore-joined environment name.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, body limit, shutdown timeout
//   - Storage: S3/MinIO endpoint, credentials, bucket
//   - Log: level and format
//   - Database: optional result database (mysql or sqlite)
//   - Run: reference location, chunk sizes, prefetch, policy, license
//     prefixes, taxonomy file and match mode
//   - Metrics: Prometheus endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Run.MatchChunkSize)
package config
