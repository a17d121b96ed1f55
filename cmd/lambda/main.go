package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

// The same router as cmd/api, fronted by API Gateway proxy events. The pool
// lives for the lifetime of the execution environment.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	instance, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	adapter := chiadapter.New(instance.Router())
	logger := instance.Logger()
	logger.Info().Msg("lambda handler ready")
	lambda.Start(adapter.ProxyWithContext)
}
