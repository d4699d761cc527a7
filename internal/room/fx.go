package room

import (
	"github.com/stayware/stayflow/internal/room/repository"
	"github.com/stayware/stayflow/internal/room/service"
	"go.uber.org/fx"
)

var Module = fx.Module("room",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
