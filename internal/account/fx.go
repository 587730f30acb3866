package account

import (
	"github.com/simplegeohq/simplegeoapi/internal/account/repository"
	"github.com/simplegeohq/simplegeoapi/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
