// Package normalize turns raw identifier strings into comparison keys.
//
// Every function is pure, total and idempotent: applying it to its own output
// returns the same value. Keys produced here are the only values the match
// cascade ever compares.
//
//	normalize.Name(" jane ")              // "JANE"
//	normalize.License("RN123456")         // "123456"
//	normalize.Phone("+1 (303) 555-0199")  // "3035550199"
package normalize
