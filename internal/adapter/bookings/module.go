package bookings

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	"github.com/polkiloo/cinema/internal/config"
)

// Module exposes bookings client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.BookingsAddress, remote.PolicyFromConfig(p.Config), p.Logger)
}
