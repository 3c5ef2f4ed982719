package account_fx

import (
	"go.uber.org/fx"
	"hairline/internal/services"
)

var Module = fx.Provide(services.NewAccountService)
