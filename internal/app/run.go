package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"
)

// Run starts application, waits until ctx is cancelled or the app asks to shut down,
// then stops it within the app's stop timeout.
func Run(ctx context.Context, application *fx.App) error {
	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-application.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), application.StopTimeout())
	defer cancel()
	if err := application.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}
