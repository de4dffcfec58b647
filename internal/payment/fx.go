package payment

import (
	"github.com/cablepro/cablepro/internal/payment/repository"
	"github.com/cablepro/cablepro/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
