package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/user-registry/internal/config"
	"github.com/wichananm65/user-registry/internal/database"
	"github.com/wichananm65/user-registry/internal/user"
	"github.com/wichananm65/user-registry/internal/views"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, db, err := openRepository(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("open repository: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	userService := user.NewService(repo)
	userHandler := user.NewHandler(userService, logger.WithField("component", "user"))

	app := newApp(logger)
	userHandler.RegisterRoutes(app)

	go func() {
		logger.Infof("listening on %s", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openRepository returns the record store for the configured driver. The
// returned *sql.DB is nil for the in-memory store.
func openRepository(ctx context.Context, cfg config.Database) (user.Repository, *sql.DB, error) {
	if cfg.Driver == "memory" {
		return user.NewInMemoryRepository(nil), nil, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := user.NewPostgresRepository(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func newApp(logger *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 views.Engine(),
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))
	return app
}

func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"method": c.Method(),
				"url":    c.OriginalURL(),
			}).WithError(err).Error("request failed")
		}

		return c.Status(code).SendString(message)
	}
}

func requestLogger(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logger.WithFields(logrus.Fields{
			"method":   c.Method(),
			"url":      c.OriginalURL(),
			"status":   status,
			"duration": time.Since(start),
		}).Debug("request")
		return err
	}
}
