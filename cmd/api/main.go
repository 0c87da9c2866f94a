// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/cart"
	"github.com/your-org/rental-backend/internal/domain/order"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/infrastructure/database/memory"
	"github.com/your-org/rental-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/rental-backend/internal/infrastructure/database/redis"
	"github.com/your-org/rental-backend/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/rental-backend/internal/interfaces/http"
	"github.com/your-org/rental-backend/internal/interfaces/http/handlers"
	"github.com/your-org/rental-backend/internal/interfaces/http/routes"
	"github.com/your-org/rental-backend/internal/pkg/email"
	"github.com/your-org/rental-backend/internal/pkg/logger"
	"github.com/your-org/rental-backend/internal/pkg/notify"
	"github.com/your-org/rental-backend/internal/pkg/pdf"
)

// demoSellerID owns the in-memory demo catalog
const demoSellerID = 1

type stores struct {
	carts   cart.Store
	orders  order.Store
	catalog product.Catalog
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	deps := http.Dependencies{Checks: map[string]http.HealthChecker{}}

	var st stores
	switch cfg.Database.Driver {
	case "memory":
		db := memory.New()
		if cfg.Database.Seed || cfg.IsDevelopment() {
			db.SeedDemo(demoSellerID)
		}
		st = stores{carts: db.Carts(), orders: db.Orders(), catalog: db.Catalog()}
		appLogger.Warn("Using in-memory storage; data is lost on restart")

	default:
		db, err := postgres.NewConnection(cfg, appLogger)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		if err := db.Health(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Database health check failed")
		}
		deps.Checks["database"] = db

		runMigrations(cfg, db, appLogger)

		st = stores{
			carts:   postgres.NewCartStore(db.GetDB()),
			orders:  postgres.NewOrderStore(db.GetDB()),
			catalog: postgres.NewCatalog(db.GetDB()),
		}
	}

	// Redis is optional; without it rate limiting is off
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewConnection(cfg, appLogger)
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			deps.Checks["redis"] = redisClient
			deps.Limiter = redisClient
		}
	}

	notifiers := notify.Fanout{}

	emailService, err := email.NewEmailService(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to configure email")
	}
	notifiers = append(notifiers, emailService)

	if cfg.External.Broker.Enabled {
		publisher, err := rabbitmq.Dial(cfg)
		if err != nil {
			appLogger.WithError(err).Warn("Message broker unavailable, order events disabled")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			appLogger.WithField("exchange", cfg.External.Broker.Exchange).Info("Publishing order events")
		}
	}

	dispatcher := notify.NewAsync(notifiers, appLogger)

	cartService := cart.NewService(st.carts, st.catalog, appLogger.WithField("component", "cart"))
	orderService := order.NewService(st.orders, st.catalog, dispatcher, cfg, appLogger.WithField("component", "order"))

	var receipts handlers.ReceiptRenderer
	if cfg.Receipt.Enabled {
		receipts = pdf.NewService(cfg)
	}

	deps.Handlers = routes.Handlers{
		Cart:   handlers.NewCartHandler(cartService),
		Order:  handlers.NewOrderHandler(orderService, receipts),
		Seller: handlers.NewSellerHandler(orderService),
	}

	appLogger.Info("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, deps, appLogger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	// Let in-flight notifications finish before connections close
	dispatcher.Wait()

	appLogger.Info("✅ Server shutdown completed")
}

func runMigrations(cfg *config.Config, db *postgres.Database, logger logrus.FieldLogger) {
	migration := postgres.NewMigration(db.GetDB(), cfg, logger)

	if err := migration.RunAutoMigrations(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		logger.WithError(err).Fatal("Index creation failed")
	}

	// Seed initial data in development
	if cfg.Database.Seed || cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logger.WithError(err).Warn("Data seeding failed")
		}
	}
}
