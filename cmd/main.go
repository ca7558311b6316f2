/*
Package main is the entry point for the DM Chat application.

It is responsible for loading configuration, initializing the global logging system,
connecting the database, broadcast broker, and file storage backends, setting up
the HTTP server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dmchat/internal/app/chat"
	"dmchat/internal/app/db"
	"dmchat/internal/app/storage"
	"dmchat/internal/configs"
	"dmchat/internal/handler"
	"dmchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("max_free_messages", cfg.MaxFreeMessages).
		Strs("redis_addrs", cfg.RedisAddrs).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool (runs embedded migrations on startup)
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	store := db.NewStore(pool)

	// File storage service
	storageService, err := storage.NewService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize file storage service")
	}

	// Delivery plane: local registry plus the cross-process broadcast bridge.
	registry := chat.NewRegistry()
	bridge := chat.NewBridge(cfg.RedisAddrs, cfg.BroadcastTopic, registry)
	go bridge.Run(ctx)

	delivery := chat.NewDelivery(registry, bridge)
	gate := chat.NewGate(cfg.MaxFreeMessages, store)
	dispatcher := chat.NewDispatcher(&chat.Deps{
		Delivery:         delivery,
		Store:            store,
		Uploads:          storageService,
		MaxFreeFileBytes: cfg.MaxFreeFileBytes,
	})

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Config:         cfg,
		Registry:       registry,
		Dispatcher:     dispatcher,
		Gate:           gate,
		Store:          store,
		StorageService: storageService,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("DM Chat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	if err := bridge.Close(); err != nil {
		logx.Warn("Broadcast bridge close failed", "error", err.Error())
	}

	logx.Info("Server gracefully stopped.")
}
