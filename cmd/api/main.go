package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/di"
	"graph-assistant/interfaces/http/rest"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	collector := container.Collector
	if !cfg.EnableMetrics || cfg.IsLambda {
		collector = nil
	}
	router := rest.NewRouter(
		container.Assistant,
		container.CommandBus,
		container.QueryBus,
		collector,
		rest.Options{EnableCORS: cfg.EnableCORS, Debug: cfg.IsDevelopment()},
		container.Logger,
	).Setup()

	if cfg.IsLambda {
		container.Logger.Info("Starting Lambda handler", zap.String("environment", cfg.Environment))
		lambda.Start(chiadapter.NewV2(router).ProxyWithContextV2)
		return
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}
}
