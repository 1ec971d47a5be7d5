// Package assistant answers natural-language questions about the graph. It
// asks the language model whether a traversal is needed, runs it when it is,
// and has the model summarize the result.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"graph-assistant/application/ports"
	domain "graph-assistant/domain/assistant"

	"go.uber.org/zap"
)

// Outcomes recorded once per question.
const (
	OutcomeGuidance     = "guidance"
	OutcomeDirectAnswer = "direct_answer"
	OutcomeQueryAnswer  = "query_answer"
	OutcomeQueryFailed  = "query_failed"
	OutcomeFailed       = "failed"
)

// DefaultTraversalSource is the prefix the model's fragments are appended to.
const DefaultTraversalSource = "g"

// Config tunes the service.
type Config struct {
	// TraversalSource prefixes the reported query, e.g. "g".
	TraversalSource string
	// InvocationTimeout bounds a whole question, zero means no deadline.
	InvocationTimeout time.Duration
}

// Service is the question-answering pipeline. It keeps no state between
// calls and is safe for concurrent use.
type Service struct {
	model    ports.LanguageModel
	executor ports.TraversalExecutor
	system   string
	config   Config
	metrics  ports.Metrics
	tracer   ports.Tracer
	logger   *zap.Logger
}

// NewService creates a new assistant service. metrics and tracer may be nil.
func NewService(
	model ports.LanguageModel,
	executor ports.TraversalExecutor,
	systemPrompt string,
	config Config,
	metrics ports.Metrics,
	tracer ports.Tracer,
	logger *zap.Logger,
) *Service {
	if config.TraversalSource == "" {
		config.TraversalSource = DefaultTraversalSource
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:    model,
		executor: executor,
		system:   systemPrompt,
		config:   config,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// AnswerQuestion runs the pipeline for one question. It never fails: every
// problem is reported as a natural-language answer.
func (s *Service) AnswerQuestion(ctx context.Context, question string, history []domain.ConversationTurn) (resp domain.Response) {
	if strings.TrimSpace(question) == "" {
		s.recordOutcome(ctx, OutcomeGuidance)
		return domain.Guidance()
	}

	if s.config.InvocationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.InvocationTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Assistant panicked", zap.Any("panic", r))
			s.recordOutcome(ctx, OutcomeFailed)
			resp = failureResponse(fmt.Errorf("%v", r))
		}
	}()

	resp, outcome, err := s.answer(ctx, question, history)
	if err != nil {
		s.logger.Error("Failed to answer question",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		s.recordOutcome(ctx, OutcomeFailed)
		return failureResponse(err)
	}

	s.logger.Info("Answered question",
		zap.String("outcome", outcome),
		zap.Int("history_turns", len(history)),
		zap.Duration("duration", time.Since(start)),
	)
	s.recordOutcome(ctx, outcome)
	return resp
}

func (s *Service) answer(ctx context.Context, question string, history []domain.ConversationTurn) (domain.Response, string, error) {
	messages := domain.BuildMessages(history, question)
	if m, ok := s.model.(ports.UserFirstModel); ok && m.RequiresLeadingUserTurn() {
		messages = domain.TrimLeadingNonUser(messages)
	}

	raw, err := s.complete(ctx, "model.directive", messages)
	if err != nil {
		return domain.Response{}, "", err
	}

	directive := domain.DecodeDirective(raw)
	if directive.Kind == domain.NoQueryNeeded {
		return domain.DirectAnswer(directive.Answer), OutcomeDirectAnswer, nil
	}

	fragment := stripSource(directive.TraversalExpression, s.config.TraversalSource)
	query := s.config.TraversalSource + "." + fragment
	s.logger.Debug("Model requested a traversal",
		zap.String("query", query),
		zap.String("explanation", directive.Explanation),
	)

	result, err := s.execute(ctx, fragment)
	if err != nil {
		s.logger.Warn("Traversal failed", zap.String("query", query), zap.Error(err))
		answer := fmt.Sprintf("I tried to answer your question by running the query %s, but it failed: %v", query, err)
		return domain.QueryFailure(answer, query), OutcomeQueryFailed, nil
	}

	data, err := FormatResult(result)
	if err != nil {
		return domain.Response{}, "", fmt.Errorf("format query result: %w", err)
	}

	followUp := make([]domain.ConversationTurn, 0, len(messages)+2)
	followUp = append(followUp, messages...)
	followUp = append(followUp,
		domain.AssistantTurn(fmt.Sprintf("I ran the following query against the graph: %s", query)),
		domain.UserTurn(summaryRequest(data)),
	)

	summary, err := s.complete(ctx, "model.summary", followUp)
	if err != nil {
		return domain.Response{}, "", err
	}
	return domain.QueryAnswer(summary, query, data), OutcomeQueryAnswer, nil
}

func (s *Service) complete(ctx context.Context, name string, messages []domain.ConversationTurn) (string, error) {
	var text string
	err := s.trace(ctx, name, func(ctx context.Context) error {
		start := time.Now()
		var err error
		text, err = s.model.Complete(ctx, s.system, messages)
		s.recordLatency(ctx, name, time.Since(start), err)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("language model: %w", err)
	}
	return text, nil
}

func (s *Service) execute(ctx context.Context, fragment string) (interface{}, error) {
	var result interface{}
	err := s.trace(ctx, "graph.traversal", func(ctx context.Context) error {
		start := time.Now()
		var err error
		result, err = s.executor.Execute(ctx, fragment)
		s.recordLatency(ctx, "graph.traversal", time.Since(start), err)
		return err
	})
	return result, err
}

func (s *Service) trace(ctx context.Context, name string, fn func(context.Context) error) error {
	if s.tracer == nil {
		return fn(ctx)
	}
	return s.tracer.TraceFunction(ctx, name, fn)
}

func (s *Service) recordLatency(ctx context.Context, operation string, latency time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.RecordLatency(ctx, operation, latency, err)
	}
}

func (s *Service) recordOutcome(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordOutcome(ctx, outcome)
	}
}

// FormatResult renders a traversal result as indented JSON.
func FormatResult(result interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// stripSource drops a leading source prefix the model included despite
// being told not to.
func stripSource(expression, source string) string {
	expression = strings.TrimSpace(expression)
	for _, prefix := range []string{source + ".", "g."} {
		if rest, ok := strings.CutPrefix(expression, prefix); ok {
			return rest
		}
	}
	return expression
}

func summaryRequest(data string) string {
	return fmt.Sprintf(`Here are the results of that query:

%s

Using these results, answer my original question in plain language. Do not return JSON, code or any other structured data; reply with plain text only.`, data)
}

func failureResponse(err error) domain.Response {
	return domain.DirectAnswer(fmt.Sprintf("Sorry, something went wrong while answering your question: %v", err))
}
