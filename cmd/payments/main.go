package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mealmate525/ecommerce-bakend/internal/app/payments"
	"github.com/mealmate525/ecommerce-bakend/internal/config"
	"github.com/mealmate525/ecommerce-bakend/internal/gateway/razorpay"
	payments_http "github.com/mealmate525/ecommerce-bakend/internal/handler/http/payments"
	"github.com/mealmate525/ecommerce-bakend/internal/infrastructure/database"
	kafka_infra "github.com/mealmate525/ecommerce-bakend/internal/infrastructure/kafka"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo/memory"
	"github.com/mealmate525/ecommerce-bakend/internal/repository/order_repo/postgres"
)

func connectDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.DBHost,
		Port:     cfg.DBConfig.DBPort,
		User:     cfg.DBConfig.DBUser,
		Password: cfg.DBConfig.DBPassword,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.DBSSLMode,
	}

	var (
		db  *sql.DB
		err error
	)
	maxRetries := 10
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			logger.Info("Successfully connected to PostgreSQL database!")
			return db, nil
		}
		logger.Warn("Failed to connect to database, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_in", retryDelay),
			zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, err
}

func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.GetDBMigrationConnectionString())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully (or no new migrations).")
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	appLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Payments Service starting...", zap.String("order_store", cfg.OrderStore))

	var orderRepository order_repo.OrderRepository
	switch cfg.OrderStore {
	case config.OrderStoreMemory:
		appLogger.Warn("Using in-memory order store, orders are not persisted")
		orderRepository = memory.NewOrderRepository()
	default:
		appLogger.Info("Waiting for database to be available...")
		db, err := connectDB(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Error closing database connection", zap.Error(err))
			} else {
				appLogger.Info("Database connection closed.")
			}
		}()

		appLogger.Info("Running database migrations...")
		if err := runMigrations(cfg, appLogger); err != nil {
			appLogger.Fatal("Database migration failed", zap.Error(err))
		}
		orderRepository = postgres.NewOrderRepository(db, appLogger.With(zap.String("component", "OrderRepository")))
	}

	gatewayClient, err := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.RazorpayAPIKey,
		KeySecret: cfg.RazorpayAPISecret,
		BaseURL:   cfg.RazorpayBaseURL,
		Timeout:   cfg.RazorpayTimeout,
	}, appLogger.With(zap.String("component", "RazorpayClient")))
	if err != nil {
		appLogger.Fatal("Failed to create Razorpay client", zap.Error(err))
	}

	var eventPublisher payments.EventPublisher
	if brokers := cfg.GetKafkaBrokers(); len(brokers) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := kafka_infra.EnsureTopics(ctx, brokers, []string{cfg.KafkaPaymentEventsTopic}, appLogger)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
		}

		kafkaProducer := kafka_infra.NewProducer(brokers, appLogger.With(zap.String("component", "KafkaProducer")))
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				appLogger.Error("Error closing Kafka producer", zap.Error(err))
			} else {
				appLogger.Info("Kafka producer closed.")
			}
		}()
		eventPublisher = kafka_infra.NewPaymentEventPublisher(kafkaProducer, cfg.KafkaPaymentEventsTopic)
		appLogger.Info("Kafka payment event publisher created.", zap.String("topic", cfg.KafkaPaymentEventsTopic))
	} else {
		appLogger.Info("KAFKA_BROKER_URL not set, payment events disabled.")
	}

	paymentService := payments.NewPaymentService(
		payments.Config{
			Currency:        cfg.PaymentCurrency,
			CallbackBaseURL: cfg.PaymentCallbackBaseURL,
		},
		orderRepository,
		gatewayClient,
		eventPublisher,
		appLogger.With(zap.String("component", "PaymentService")),
	)
	appLogger.Info("Payment Service initialized.")

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           payments_http.NewRouter(paymentService, cfg.GetCORSAllowedOrigins(), appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	appLogger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	appLogger.Info("Application gracefully shut down.")
}
