package backend_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/config"
	"hairline/internal/services"
	"hairline/internal/session"
)

var Module = fx.Provide(
	provideClient,
	func(c *backend.Client) services.AccountBackend { return c },
	func(c *backend.Client) services.QuestionnaireBackend { return c },
	func(c *backend.Client) services.FinancialBackend { return c },
	func(c *backend.Client) services.MedicalBackend { return c },
)

func provideClient(cfg *config.Config, sessions session.Store, log *zap.Logger) *backend.Client {
	return backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, sessions, log.Named("backend"))
}
