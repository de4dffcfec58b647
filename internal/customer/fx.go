package customer

import (
	"github.com/cablepro/cablepro/internal/customer/repository"
	"github.com/cablepro/cablepro/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
