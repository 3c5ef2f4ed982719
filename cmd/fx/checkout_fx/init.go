package checkout_fx

import (
	"go.uber.org/fx"
	"hairline/internal/services"
)

var Module = fx.Provide(services.NewCheckoutService)
