// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from it: listen port, API key
// required by the auth middleware, request body limit and graceful shutdown
// timeout.
package server
