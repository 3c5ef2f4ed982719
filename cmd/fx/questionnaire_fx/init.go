package questionnaire_fx

import (
	"go.uber.org/fx"
	"hairline/internal/questionnaire"
	"hairline/internal/services"
)

var Module = fx.Provide(
	questionnaire.DefaultQuestions,
	services.NewQuestionnaireService,
	services.NewProtocolService,
)
