package usage

import (
	"github.com/simplegeohq/simplegeoapi/internal/usage/repository"
	"github.com/simplegeohq/simplegeoapi/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
