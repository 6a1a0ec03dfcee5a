package server

import "fmt"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies; target lists can be large.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"30"`
}

// Address returns the listen address.
func (c Config) Address() string {
	return ":" + c.Port
}

// BodyLimit returns the body limit in bytes, never less than 1 MB.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB < 1 {
		return 1 << 20
	}
	return c.BodyLimitMB << 20
}

// Validate rejects an unusable port.
func (c Config) Validate() error {
	var port int
	if _, err := fmt.Sscanf(c.Port, "%d", &port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}
