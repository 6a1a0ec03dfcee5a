// Package middleware groups HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting every route except the
//     configured skip prefixes.
//   - rayid: tags every request with a ray id, stored in the fiber locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
//
// Both are registered globally by the start command.
package middleware
