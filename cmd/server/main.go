package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docx-pdf-service/internal/config"
	"docx-pdf-service/internal/handler"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	cfg := container.Config

	if err := container.FileStore.EnsureDirs(); err != nil {
		container.Logger.Error("Failed to create storage directories", err,
			"upload_path", cfg.GetUploadPath(),
			"converted_path", cfg.GetConvertedPath(),
		)
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.GetFontPath()); err != nil {
		container.Logger.Warn("Font resource not found, conversions will fail until it is deployed",
			"font_path", cfg.GetFontPath(),
		)
	}

	// Handlers
	conversionHandler := handler.NewConversionHandler(
		container.ConversionService,
		cfg.GetMaxFileSize(),
		container.Logger,
	)

	// Router
	router := handler.NewRouter(conversionHandler, container.Logger, cfg.GetCORSOrigins())

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening",
			"address", server.Addr,
			"max_upload", humanize.IBytes(uint64(cfg.GetMaxFileSize())),
			"artifact_mirror", cfg.GetArtifactMirror(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
	if syncer, ok := container.Logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}
