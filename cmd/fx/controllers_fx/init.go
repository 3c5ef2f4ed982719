package controllers_fx

import (
	"go.uber.org/fx"
	"hairline/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewProtocolController),
	fx.Provide(controllers.NewQuestionnaireController),
	fx.Provide(controllers.NewCheckoutController),
	fx.Provide(controllers.NewBookingController))
