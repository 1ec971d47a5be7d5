// Package di wires the application with google/wire. wire.go holds the
// injectors; wire_gen.go is their generated form.
package di

import (
	"graph-assistant/application/assistant"
	"graph-assistant/application/bulkload"
	"graph-assistant/application/commands/bus"
	"graph-assistant/application/ports"
	querybus "graph-assistant/application/queries/bus"
	"graph-assistant/application/subscriptions"
	"graph-assistant/infrastructure/config"
	"graph-assistant/pkg/observability"

	"go.uber.org/zap"
)

// Container holds the dependencies of the assistant and the resolvers.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Assistant  *assistant.Service
	QueryBus   *querybus.QueryBus
	CommandBus *bus.CommandBus
	Collector  *observability.Collector
	Metrics    ports.Metrics
}

// BulkLoadContainer holds the dependencies of the bulk load function.
type BulkLoadContainer struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service *bulkload.Service
}

// SubscriptionContainer holds the dependencies of the e-mail subscription
// custom resource.
type SubscriptionContainer struct {
	Config  *config.Config
	Logger  *zap.Logger
	Manager *subscriptions.Manager
}
