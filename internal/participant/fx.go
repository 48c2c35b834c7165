package participant

import (
	"github.com/smallbiznis/sambatan/internal/participant/repository"
	"github.com/smallbiznis/sambatan/internal/participant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("participant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
