// Package utils provides type coercion helpers for loosely typed input.
//
// Target files come from several upstream exports where the same field may
// be a string in one record and a number or list in the next. ToString and
// ToStrings fold those shapes into plain strings before normalization.
package utils
