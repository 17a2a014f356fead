package config

import "go.uber.org/fx"

// Module exposes configuration of the given service for fx graphs.
func Module(service Service) fx.Option {
	return fx.Provide(func() (*Config, error) {
		return Load(service)
	})
}
