package payment

import (
	"github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/internal/payment/provider/stripe"
	"github.com/stayware/stayflow/internal/payment/repository"
	"github.com/stayware/stayflow/internal/payment/service"
	"github.com/stayware/stayflow/internal/payment/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(
		repository.Provide,
		fx.Annotate(stripe.NewClient, fx.As(new(domain.Provider))),
		service.NewService,
		func(s domain.Service) webhook.Reconciler { return s },
		webhook.NewService,
	),
)
