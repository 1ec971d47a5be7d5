// Package bedrock provides the language model backed by the Amazon Bedrock
// Converse API.
package bedrock

import (
	"context"
	"errors"
	"strings"

	"graph-assistant/domain/assistant"
	apperrors "graph-assistant/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the model answers without any text.
var ErrEmptyCompletion = errors.New("language model returned no text")

// DefaultMaxTokens caps the length of each completion.
const DefaultMaxTokens = 1000

// ConverseAPI is the part of the Bedrock runtime client used by Model.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Config selects the model and bounds its output.
type Config struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
}

// Model completes conversations with a Bedrock-hosted model.
type Model struct {
	client ConverseAPI
	config Config
	logger *zap.Logger
}

// NewModel creates a new Bedrock model.
func NewModel(client ConverseAPI, config Config, logger *zap.Logger) *Model {
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	return &Model{client: client, config: config, logger: logger}
}

// RequiresLeadingUserTurn reports that Converse rejects conversations that
// open with an assistant message.
func (m *Model) RequiresLeadingUserTurn() bool {
	return true
}

// Complete sends one Converse request and returns the concatenated text of
// the reply.
func (m *Model) Complete(ctx context.Context, system string, messages []assistant.ConversationTurn) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(m.config.ModelID),
		Messages: toMessages(messages),
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(m.config.MaxTokens),
			Temperature: aws.Float32(m.config.Temperature),
		},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}

	out, err := m.client.Converse(ctx, input)
	if err != nil {
		return "", wrapError(err)
	}

	if out == nil {
		return "", ErrEmptyCompletion
	}

	text := extractText(out)
	if strings.TrimSpace(text) == "" {
		m.logger.Warn("Model returned no text",
			zap.String("model_id", m.config.ModelID),
			zap.String("stop_reason", string(out.StopReason)),
		)
		return "", ErrEmptyCompletion
	}

	if out.Usage != nil {
		m.logger.Debug("Model completion",
			zap.String("model_id", m.config.ModelID),
			zap.Int32("input_tokens", aws.ToInt32(out.Usage.InputTokens)),
			zap.Int32("output_tokens", aws.ToInt32(out.Usage.OutputTokens)),
		)
	}
	return text, nil
}

func toMessages(turns []assistant.ConversationTurn) []types.Message {
	messages := make([]types.Message, 0, len(turns))
	for _, turn := range turns {
		role := types.ConversationRoleUser
		if turn.Role == assistant.RoleAssistant {
			role = types.ConversationRoleAssistant
		}
		messages = append(messages, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: turn.Content}},
		})
	}
	return messages
}

func extractText(out *bedrockruntime.ConverseOutput) string {
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	return sb.String()
}

func wrapError(err error) error {
	appErr := apperrors.NewExternalError("bedrock", err)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		appErr = appErr.WithCode(apiErr.ErrorCode())
	}
	return appErr
}
