// Command mutation is the Lambda behind the graph write fields.
package main

import (
	"context"
	"log"

	"graph-assistant/infrastructure/config"
	"graph-assistant/infrastructure/di"
	"graph-assistant/interfaces/appsync"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	resolver := appsync.NewResolver(nil, nil, container.CommandBus, container.Logger)
	lambda.Start(resolver.Handle)
}
