// Package logger builds the zap logger shared by commands and services.
//
// Level "debug" selects zap's development config; any other level uses the
// production config at that level. Format "console" switches to the coloured
// console encoder, anything else logs JSON. Timestamps are ISO8601 in both.
//
// Handlers call WithRayID so every line of one request carries its ray_id:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Match run failed", zap.Error(err))
package logger
