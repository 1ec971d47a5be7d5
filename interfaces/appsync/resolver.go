// Package appsync dispatches AppSync direct Lambda resolver events to the
// assistant and the graph buses.
package appsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"graph-assistant/application/commands"
	"graph-assistant/application/commands/bus"
	"graph-assistant/application/queries"
	querybus "graph-assistant/application/queries/bus"
	domain "graph-assistant/domain/assistant"
	apperrors "graph-assistant/pkg/errors"
	"graph-assistant/pkg/utils"

	"go.uber.org/zap"
)

// Event is the payload AppSync sends to a direct Lambda resolver.
type Event struct {
	Arguments json.RawMessage `json:"arguments"`
	Info      Info            `json:"info"`
}

// Info identifies the resolved field.
type Info struct {
	FieldName      string `json:"fieldName"`
	ParentTypeName string `json:"parentTypeName"`
}

// Assistant answers graph questions.
type Assistant interface {
	AnswerQuestion(ctx context.Context, question string, history []domain.ConversationTurn) domain.Response
}

// AskGraphArguments are the arguments of askGraph. History is the
// serialized conversation so far.
type AskGraphArguments struct {
	Question string `json:"question"`
	History  string `json:"history"`
}

// Resolver routes events by field name. Any of its collaborators may be nil
// when a function only serves a subset of the fields.
type Resolver struct {
	assistant  Assistant
	queryBus   *querybus.QueryBus
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewResolver creates a new resolver.
func NewResolver(assistant Assistant, queryBus *querybus.QueryBus, commandBus *bus.CommandBus, logger *zap.Logger) *Resolver {
	return &Resolver{assistant: assistant, queryBus: queryBus, commandBus: commandBus, logger: logger}
}

// Handle resolves one field.
func (r *Resolver) Handle(ctx context.Context, event Event) (interface{}, error) {
	r.logger.Debug("Resolving field",
		zap.String("field", event.Info.FieldName),
		zap.String("parent", event.Info.ParentTypeName),
	)

	switch event.Info.FieldName {
	case "askGraph":
		return r.askGraph(ctx, event.Arguments)

	case "getVertex":
		return r.ask(ctx, event.Arguments, &queries.GetVertexQuery{})
	case "listVertices":
		return r.ask(ctx, event.Arguments, &queries.ListVerticesQuery{})
	case "neighbors":
		return r.ask(ctx, event.Arguments, &queries.NeighborsQuery{})
	case "countVertices":
		return r.ask(ctx, event.Arguments, &queries.CountVerticesQuery{})

	case "addVertex":
		var cmd commands.AddVertexCommand
		return r.send(ctx, event.Arguments, &cmd, func() bus.Command {
			utils.NormalizeNumbers(cmd.Properties)
			return cmd
		})
	case "addEdge":
		var cmd commands.AddEdgeCommand
		return r.send(ctx, event.Arguments, &cmd, func() bus.Command {
			utils.NormalizeNumbers(cmd.Properties)
			return cmd
		})
	case "updateVertexProperties":
		var cmd commands.UpdateVertexPropertiesCommand
		return r.send(ctx, event.Arguments, &cmd, func() bus.Command {
			utils.NormalizeNumbers(cmd.Properties)
			return cmd
		})
	case "dropVertex":
		var cmd commands.DropVertexCommand
		return r.send(ctx, event.Arguments, &cmd, func() bus.Command {
			return cmd
		})
	}

	return nil, apperrors.NewValidationError(fmt.Sprintf("unknown field %s.%s", event.Info.ParentTypeName, event.Info.FieldName))
}

func (r *Resolver) askGraph(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	if r.assistant == nil {
		return nil, apperrors.NewInternalError("askGraph is not served by this function")
	}

	var args AskGraphArguments
	if err := decode(raw, &args); err != nil {
		r.logger.Warn("Malformed askGraph arguments", zap.Error(err))
	}

	history, err := domain.ParseHistory(args.History)
	if err != nil {
		r.logger.Warn("Ignoring malformed conversation history", zap.Error(err))
		history = nil
	}

	return r.assistant.AnswerQuestion(ctx, args.Question, history), nil
}

// ask decodes into a pointer to a query struct and dispatches the value.
func (r *Resolver) ask(ctx context.Context, raw json.RawMessage, target interface{}) (interface{}, error) {
	if r.queryBus == nil {
		return nil, apperrors.NewInternalError("graph queries are not served by this function")
	}
	if err := decode(raw, target); err != nil {
		return nil, err
	}

	var q querybus.Query
	switch t := target.(type) {
	case *queries.GetVertexQuery:
		q = *t
	case *queries.ListVerticesQuery:
		q = *t
	case *queries.NeighborsQuery:
		q = *t
	case *queries.CountVerticesQuery:
		q = *t
	default:
		return nil, apperrors.NewInternalError(fmt.Sprintf("unsupported query %T", target))
	}
	return r.queryBus.Ask(ctx, q)
}

func (r *Resolver) send(ctx context.Context, raw json.RawMessage, target interface{}, command func() bus.Command) (interface{}, error) {
	if r.commandBus == nil {
		return nil, apperrors.NewInternalError("graph mutations are not served by this function")
	}
	if err := decode(raw, target); err != nil {
		return nil, err
	}
	return r.commandBus.Send(ctx, command())
}

func decode(raw json.RawMessage, target interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return apperrors.NewValidationError("invalid arguments").WithCause(err)
	}
	return nil
}
