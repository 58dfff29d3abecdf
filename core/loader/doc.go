// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface, which defines its route registration logic:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager holds the registry of features. It handles registration via Register()
// and loading of enabled features via LoadAll(), so that inventory, scan, insights and
// integrity can be developed and tested in isolation.
package loader
