package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/schoolatlas/schoolatlas-backend/internal/app"
	"github.com/schoolatlas/schoolatlas-backend/internal/observability"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/envutil"
)

func main() {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	shutdownTracing := observability.InitOTel(context.Background(), application.Log, observability.OtelConfig{
		ServiceName: "schoolatlas-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	port := envutil.String("PORT", "8080")
	application.Log.Info("Server listening", "port", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
