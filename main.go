// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backoffice/cmd"
	"backoffice/internal/data/repository"
	"backoffice/internal/data/schema"
	"backoffice/internal/usecase"
	"backoffice/internal/wire"
	"backoffice/pkg/database"
	"backoffice/pkg/notification"
	"backoffice/pkg/storage"
	"backoffice/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.ApplySchema {
		if err := schema.Apply(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	files, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init file storage", zap.Error(err))
	}

	transport, err := newTransport(config.Notification, logger)
	if err != nil {
		logger.Fatal("Failed to init notification transport", zap.Error(err))
	}
	queue := notification.NewQueue(transport, config.Notification.QueueSize, logger)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("Failed to close notification queue", zap.Error(err))
		}
	}()

	var audit usecase.AuditLog = usecase.NopAuditLog{}
	if config.Audit.Enabled {
		audit = usecase.NewActivityAuditLog(repos.Activity)
	}

	service := usecase.NewService(usecase.WorkflowDeps{
		Repo:       repos,
		Storage:    files,
		Notifier:   queue,
		Audit:      audit,
		BcryptCost: config.App.BcryptCost,
		PageSize:   config.App.PageSize,
		Log:        logger,
	}, afero.NewOsFs())

	if path := config.App.CountriesSeedPath; path != "" {
		n, err := service.Country.SeedFromFile(ctx, path)
		if err != nil {
			logger.Fatal("Failed to seed countries", zap.Error(err), zap.String("path", path))
		}
		logger.Info("Countries seeded", zap.Int("count", n))
	}

	// Wire all dependencies
	app := wire.Wiring(service, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}
}

func newTransport(cfg utils.NotificationConfig, logger *zap.Logger) (notification.Transport, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return notification.NewRabbitTransport(cfg.RabbitMQURL, cfg.Exchange, logger)
	default:
		return notification.NewLogTransport(logger), nil
	}
}
