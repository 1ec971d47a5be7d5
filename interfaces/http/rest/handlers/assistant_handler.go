// Package handlers adapts HTTP requests to the assistant and the graph
// buses.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	domain "graph-assistant/domain/assistant"
	"graph-assistant/pkg/common"
	apperrors "graph-assistant/pkg/errors"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Assistant answers graph questions.
type Assistant interface {
	AnswerQuestion(ctx context.Context, question string, history []domain.ConversationTurn) domain.Response
}

// AssistantHandler serves the question endpoint.
type AssistantHandler struct {
	assistant    Assistant
	errorHandler *apperrors.ErrorHandler
	logger       *zap.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant Assistant, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, errorHandler: errorHandler, logger: logger}
}

// AskRequest is the body of POST /assistant/ask. History may be a JSON
// array of turns or a string holding one.
type AskRequest struct {
	Question string          `json:"question"`
	History  json.RawMessage `json:"history,omitempty"`
}

// Ask handles POST /assistant/ask. The assistant always answers, so every
// well-formed request gets 200.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	history := decodeHistory(req.History, h.logger)
	resp := h.assistant.AnswerQuestion(r.Context(), req.Question, history)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decodeHistory accepts an array or its serialized form. Malformed history
// is logged and treated as empty.
func decodeHistory(raw json.RawMessage, logger *zap.Logger) []domain.ConversationTurn {
	if len(raw) == 0 {
		return nil
	}

	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}

	history, err := domain.ParseHistory(text)
	if err != nil {
		logger.Warn("Ignoring malformed conversation history", zap.Error(err))
		return nil
	}
	return history
}
