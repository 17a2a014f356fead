package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/cinema/internal/app"
	"github.com/polkiloo/cinema/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Bookings(),
	)

	if err := app.Run(ctx, application); err != nil {
		fmt.Fprintf(os.Stderr, "bookings: %v\n", err)
		os.Exit(1)
	}
}
