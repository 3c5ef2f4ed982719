package booking_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"hairline/internal/booking"
	"hairline/internal/config"
	"hairline/internal/infra"
	"hairline/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideAppointments, services.NewBookingService),
	fx.Invoke(registerSweeper),
)

func provideAppointments(cfg *config.Config) *booking.Appointments {
	return booking.NewAppointments(cfg.Cache.AppointmentsTTL)
}

func registerSweeper(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, appts *booking.Appointments) {
	infra.RunEvery(lc, cfg.Cache.SweepInterval, "appointments", log, func(context.Context) (int64, error) {
		return int64(appts.Sweep()), nil
	})
}
