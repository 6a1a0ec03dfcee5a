// Package classify selects reference rows by provider taxonomy.
//
// A Filter holds a set of taxonomy codes, compared either exactly or as
// prefixes against the fifteen taxonomy slots of a row, plus optional
// predicates on first name, last name, city (case-insensitive substring) and
// state (case-insensitive equality). All predicates must hold.
//
// Consumer plugs a Filter into the chunk pipeline and streams qualifying raw
// records to a reference.Sink. Coverage compares two code sets over the same
// rows, which is how a widened taxonomy is evaluated before it is adopted.
//
// Code sets are loaded from YAML with LoadTaxonomy or taken from
// DefaultNurseTaxonomy.
package classify
