// Package models defines the GORM models of persisted match runs.
//
// Column names and types are declared in the gorm tags; the integrity feature
// reads those tags back to verify a live schema.
package models
