package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yardpoint/pipeyardgo/internal/config"
	"github.com/yardpoint/pipeyardgo/internal/database"
	"github.com/yardpoint/pipeyardgo/internal/handlers"
	"github.com/yardpoint/pipeyardgo/internal/models"
	"github.com/yardpoint/pipeyardgo/internal/notify"
	"github.com/yardpoint/pipeyardgo/internal/yard"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.NodeEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Schema synchronization
	log.Info("Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Company{},
		&models.UserAuth{},
		&models.Rack{},
		&models.StorageRequest{},
		&models.TruckingLoad{},
		&models.ManifestDocument{},
		&models.ManifestLine{},
		&models.InventoryItem{},
		&models.RackAdjustment{},
		&models.NotificationOutbox{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	// The CHECK constraints are the storage-layer backstop for the rack
	// capacity invariant; the allocation guard remains the primary mechanism.
	if err := db.InstallConstraints(); err != nil {
		log.Fatalf("Constraint installation failed: %v", err)
	}
	log.Info("Schema synchronized successfully")

	// 4. Wire up services
	yardSvc := yard.NewService(db, log.StandardLogger(), cfg.Yard.MinJustificationLen)

	hub := notify.NewHub()
	go hub.Run()
	notifier := notify.NewDispatcher(db, hub)

	router := handlers.NewRouter(db, cfg, yardSvc, hub, notifier)

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Infof("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Info("Closing database connection...")
	if err := db.Close(); err != nil {
		log.Warnf("Database close error: %v", err)
	}

	log.Info("Shutdown complete")
}
