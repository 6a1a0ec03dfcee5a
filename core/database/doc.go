// Package database handles the optional result database.
//
// Connect opens MySQL or SQLite through GORM with the configured timeouts.
// Match runs and their per-target resolutions are persisted there when
// persistence is enabled.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns (SHOW COLUMNS on MySQL, PRAGMA
// table_info on SQLite). The integrity check compares the result against the
// GORM models to catch drifted schemas before a run writes into them.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	columns, err := database.GetTableColumns(db, "match_results")
package database
