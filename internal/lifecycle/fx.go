package lifecycle

import (
	"context"

	"github.com/smallbiznis/sambatan/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("lifecycle",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(NewSweeper),
)

func NewSweeper(lc fx.Lifecycle, cfg config.Config, sweeper *Sweeper) {
	if !cfg.SweepEnabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sweeper.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
