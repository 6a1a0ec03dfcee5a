// Package loader mounts HTTP features on the server.
//
// A feature is anything that implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Features are registered on a Manager in the order their routes should be
// mounted. LoadAll skips disabled ones and stops at the first Load error, so a
// failed migration in the match feature keeps the server from starting with a
// half-mounted API.
package loader
