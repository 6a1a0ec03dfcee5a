// Package checks holds the individual integrity checks. Each check is a plain
// function over its dependency so it can run from the CLI or the HTTP API.
package checks
