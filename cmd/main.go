package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushub/internal/api"
	"campushub/internal/cache"
	"campushub/internal/config"
	"campushub/internal/database"
	"campushub/internal/mail"
	"campushub/internal/monitoring"
	"campushub/internal/repository"
	"campushub/internal/token"
	"campushub/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()

	telemetry, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		return err
	}
	logger := telemetry.Logger()
	slog.SetDefault(logger)

	db := database.NewDatabase()
	if err := db.Connect(ctx, cfg.Database.DSN()); err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return err
	}

	repo := repository.NewPostgresRepository(db)

	eventCache := cache.NewEventCache(cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.CacheTTL)
	defer eventCache.Close()
	if eventCache.Enabled() {
		logger.Info("Event cache enabled", "addr", cfg.Redis.Addr)
	}

	var sender mail.Sender = mail.NopSender{Logger: logger}
	if cfg.Mail.Host != "" {
		smtpSender, err := mail.NewSMTPSender(cfg.Mail)
		if err != nil {
			logger.Error("Failed to create SMTP sender", "error", err)
			return err
		}
		sender = smtpSender
	}
	mailer := mail.NewMailer(sender, cfg.Mail.SiteURL, logger)

	handler := api.NewHandler(api.HandlerParams{
		Repo:       repo,
		Tokens:     token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Validate:   validator.NewValidator(),
		Mailer:     mailer,
		Cache:      eventCache,
		Telemetry:  telemetry,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	app := fiber.New(fiber.Config{
		AppName:      "CampusHub",
		ErrorHandler: errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(cors.New())

	handler.RegisterRoutes(app)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("Starting HTTP server...", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down telemetry", "error", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// errorHandler is the last line of defense: anything a handler returns
// as a plain error becomes the generic 500 envelope.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"msg":     fiberErr.Message,
			})
		}
		logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"msg":     "Internal server error",
		})
	}
}
