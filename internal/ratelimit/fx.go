package ratelimit

import "go.uber.org/fx"

var Module = fx.Module("rate.limit",
	fx.Provide(
		NewPaymentLimiter,
		func(f *FixedWindow) Limiter { return f },
	),
)
