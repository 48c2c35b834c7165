package campaign

import (
	"github.com/smallbiznis/sambatan/internal/campaign/repository"
	"github.com/smallbiznis/sambatan/internal/campaign/reservation"
	"github.com/smallbiznis/sambatan/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(repository.Provide),
	fx.Provide(reservation.NewEngine),
	fx.Provide(service.NewService),
)
