package geocode

import (
	"github.com/simplegeohq/simplegeoapi/internal/geocode/provider"
	"github.com/simplegeohq/simplegeoapi/internal/geocode/repository"
	"github.com/simplegeohq/simplegeoapi/internal/geocode/service"
	"go.uber.org/fx"
)

var Module = fx.Module("geocode",
	fx.Provide(repository.New),
	fx.Provide(provider.New),
	fx.Provide(service.New),
)
