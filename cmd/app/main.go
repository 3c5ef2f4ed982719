package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"hairline/cmd/fx/account_fx"
	"hairline/cmd/fx/backend_fx"
	"hairline/cmd/fx/booking_fx"
	"hairline/cmd/fx/checkout_fx"
	"hairline/cmd/fx/controllers_fx"
	"hairline/cmd/fx/db_fx"
	"hairline/cmd/fx/memcache_fx"
	"hairline/cmd/fx/questionnaire_fx"
	"hairline/internal/api/controllers"
	"hairline/internal/config"
	"hairline/internal/session"
	"hairline/pkg/logger"
	"hairline/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	app := fx.New(
		fx.Supply(cfg, zl),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		storageModule(cfg),
		backend_fx.Module,
		account_fx.Module,
		questionnaire_fx.Module,
		checkout_fx.Module,
		booking_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func storageModule(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == "memory" {
		return memcache_fx.Module
	}
	return db_fx.Module
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	sessions session.Store,
	logger *zap.Logger,
	accountController *controllers.AccountController,
	protocolController *controllers.ProtocolController,
	questionnaireController *controllers.QuestionnaireController,
	checkoutController *controllers.CheckoutController,
	bookingController *controllers.BookingController) *gin.Engine {

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.SessionMiddleware(sessions, logger))

	auth := middleware.AuthMiddleware(sessions, cfg.Session.TokenSkew, logger)

	RegisterRoutes(r, auth,
		accountController,
		protocolController,
		questionnaireController,
		checkoutController,
		bookingController)

	return r
}

func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc,
	accountController *controllers.AccountController,
	protocolController *controllers.ProtocolController,
	questionnaireController *controllers.QuestionnaireController,
	checkoutController *controllers.CheckoutController,
	bookingController *controllers.BookingController) {

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", accountController.Register)
	authGroup.POST("/login", accountController.Login)
	authGroup.GET("/session", accountController.Session)
	authGroup.POST("/logout", auth, accountController.Logout)

	api.POST("/protocol/calculate", protocolController.Calculate)

	quizGroup := api.Group("/questionnaire")
	quizGroup.GET("", questionnaireController.Current)
	quizGroup.POST("/answer", questionnaireController.Answer)
	quizGroup.POST("/next", questionnaireController.Next)
	quizGroup.POST("/back", questionnaireController.Back)
	quizGroup.POST("/submit", questionnaireController.Submit)
	quizGroup.DELETE("", questionnaireController.Reset)
	quizGroup.GET("/history", auth, questionnaireController.History)

	checkoutGroup := api.Group("/checkout")
	checkoutGroup.GET("", checkoutController.State)
	checkoutGroup.POST("/plan", checkoutController.SelectPlan)
	checkoutGroup.POST("/identity", checkoutController.SetIdentity)
	checkoutGroup.POST("/address", checkoutController.SetAddress)
	checkoutGroup.POST("/payment", checkoutController.SelectPaymentMethod)
	checkoutGroup.POST("/coupon", checkoutController.ApplyCoupon)
	checkoutGroup.DELETE("/coupon", checkoutController.RemoveCoupon)
	checkoutGroup.POST("/back", checkoutController.Back)
	checkoutGroup.GET("/total", checkoutController.Total)
	checkoutGroup.POST("/purchase", auth, checkoutController.Purchase)
	checkoutGroup.DELETE("", checkoutController.Abandon)

	bookingGroup := api.Group("/booking", auth)
	bookingGroup.GET("/slots", bookingController.Slots)
	bookingGroup.GET("", bookingController.State)
	bookingGroup.POST("/select", bookingController.Select)
	bookingGroup.POST("/book", bookingController.Book)
	bookingGroup.POST("/retry", bookingController.Retry)
	bookingGroup.POST("/reschedule", bookingController.Reschedule)
	bookingGroup.POST("/decline-reschedule", bookingController.DeclineReschedule)
	bookingGroup.DELETE("", bookingController.Reset)

	appointmentsGroup := api.Group("/appointments", auth)
	appointmentsGroup.GET("", bookingController.Appointments)
	appointmentsGroup.POST("/:id/cancel", bookingController.Cancel)
}
