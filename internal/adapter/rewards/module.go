package rewards

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/adapter/remote"
	"github.com/polkiloo/cinema/internal/config"
)

// Module exposes rewards client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.RewardsAddress, remote.PolicyFromConfig(p.Config), p.Logger)
}
