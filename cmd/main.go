package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight-operations/internal/config"
	"freight-operations/internal/infrastructure/database/postgres"
	"freight-operations/internal/ingestion"
	"freight-operations/internal/logger"
	"freight-operations/internal/routes"
	pkgmqtt "freight-operations/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting freight operations service",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	router := routes.SetupRoutes(cfg, db)

	// Carrier tracking feed is optional; the API works without it.
	if cfg.Tracking.Enabled {
		shipmentRepo := postgres.NewShipmentRepository(db)
		eventRepo := ingestion.NewRepository(db)
		processor := ingestion.NewProcessor(
			shipmentRepo,
			eventRepo,
			cfg.Tracking.BatchSize,
			cfg.Tracking.WorkerCount,
			cfg.Tracking.BufferSize,
			cfg.Tracking.BatchTimeout,
		)
		processor.Start()
		defer processor.Stop()

		mqttClient, err := ingestion.NewMQTTIngestionClient(&ingestion.MQTTIngestionConfig{
			ClientConfig: &pkgmqtt.Config{
				Broker:               cfg.Tracking.Broker,
				ClientID:             cfg.Tracking.ClientID,
				Username:             cfg.Tracking.Username,
				Password:             cfg.Tracking.Password,
				CleanSession:         true,
				KeepAlive:            cfg.Tracking.KeepAlive,
				ConnectTimeout:       cfg.Tracking.ConnectTimeout,
				AutoReconnect:        true,
				MaxReconnectInterval: cfg.Tracking.MaxReconnectInterval,
			},
			EventTopic: cfg.Tracking.EventTopic,
			QoS:        byte(cfg.Tracking.QoS),
		}, processor)
		if err != nil {
			logger.Fatal("Failed to build tracking feed client", zap.Error(err))
		}
		if err := mqttClient.Start(); err != nil {
			logger.Fatal("Failed to start tracking feed client", zap.Error(err))
		}
		defer mqttClient.Stop()
	}

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
