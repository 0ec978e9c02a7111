package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mkarani499/video-platform-2/app/controller"
	"github.com/mkarani499/video-platform-2/app/daraja"
	"github.com/mkarani499/video-platform-2/app/repository"
	"github.com/mkarani499/video-platform-2/app/service"
	"github.com/mkarani499/video-platform-2/app/types"
	"github.com/mkarani499/video-platform-2/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server exposing the user, video, and payment endpoints.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	db := mustOpenDatabase(cfg)
	defer closeDatabase(db)

	paymentRepo := repository.NewPaymentRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	userRepo := repository.NewUserRepository(db)

	gateway := daraja.NewClient(daraja.Config{
		ConsumerKey:    cfg.Mpesa.ConsumerKey,
		ConsumerSecret: cfg.Mpesa.ConsumerSecret,
		Shortcode:      cfg.Mpesa.Shortcode,
		Passkey:        cfg.Mpesa.Passkey,
		CallbackURL:    cfg.Mpesa.CallbackURL,
		BaseURL:        cfg.Mpesa.BaseURL,
		HTTPTimeout:    cfg.Mpesa.HTTPTimeout,
	})

	paymentService := service.NewPaymentService(paymentRepo, videoRepo, gateway)
	videoService := service.NewVideoService(videoRepo)
	userService := service.NewUserService(userRepo)

	paymentController := controller.NewPaymentController(paymentService)
	videoController := controller.NewVideoController(videoService)
	userController := controller.NewUserController(userService)

	e := setupHTTPServer(paymentController, videoController, userController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	paymentController *controller.PaymentController,
	videoController *controller.VideoController,
	userController *controller.UserController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", paymentController.Health)

	e.POST("/users/register", userController.Register)

	e.GET("/videos", videoController.ListVideos)
	e.GET("/videos/:id", videoController.GetVideo)
	e.POST("/videos", videoController.CreateVideo, requireUser())

	payments := e.Group("/payments")
	payments.POST("/callback", paymentController.HandleDarajaCallback)
	payments.POST("/initiate", paymentController.InitiatePayment, requireUser())
	payments.GET("/status/:paymentId", paymentController.PaymentStatus, requireUser())

	return e
}

// requireUser rejects requests without a caller identity. The identity is
// forwarded by the edge proxy in the User-Id header; this service does not
// verify credentials itself.
func requireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			userRef := strings.TrimSpace(ctx.Request().Header.Get("User-Id"))
			if userRef == "" {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "user-id header is required"})
			}
			ctx.Set(types.UserRefContextKey, userRef)
			return next(ctx)
		}
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	return nil
}

func mustOpenDatabase(cfg *config.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	return db
}

func closeDatabase(db *sql.DB) {
	if err := db.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close database")
	}
}
