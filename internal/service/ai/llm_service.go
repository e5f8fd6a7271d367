package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/seanmiao/innerview/backend/internal/config"
	"github.com/seanmiao/innerview/backend/internal/model/chat"
)

// Service is the interview engine: it turns a transcript plus a new user
// message into an interviewer reply via the configured chat model. The
// model is selected once at startup (live Ark backend or placeholder) and
// never switched per call.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	interview config.InterviewConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the interviewer chain over the supplied chat model.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig, interview config.InterviewConfig) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(interviewerSystemPrompt),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile interviewer chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		interview: interview,
		chain:     runnable,
	}, nil
}

// StreamingEnabled indicates whether SSE streaming output is switched on.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// FallbackReply is the degraded interviewer line used when the model call
// fails. Callers must still record it as an assistant turn so the
// transcript stays consistent regardless of backend availability.
func (s *Service) FallbackReply() string {
	return s.interview.FallbackReply
}

// GetChatModel returns the underlying chat model so other chains (the
// profile extractor) can share the same backend strategy.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// GenerateReply produces the interviewer's next reply for the session.
func (s *Service) GenerateReply(ctx context.Context, sessionID string, history []chat.Message, userMessage string) (string, error) {
	input := s.buildChainInput(history, userMessage)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run interviewer chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	log.Printf("[ai] generated reply for session=%s, length=%d", sessionID, len(reply))
	return reply, nil
}

// StreamReply streams interviewer reply chunks via the compiled chain.
func (s *Service) StreamReply(ctx context.Context, history []chat.Message, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, s.buildChainInput(history, userMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to stream interviewer chain output: %w", err)
	}

	return stream, nil
}

func (s *Service) buildChainInput(history []chat.Message, userMessage string) map[string]any {
	return map[string]any{
		"history": s.buildHistoryMessages(history),
		"query":   userMessage,
	}
}

// buildHistoryMessages replays the most recent turns into the prompt. The
// newest user turn is passed separately as the query, so it is excluded
// here when it trails the transcript.
func (s *Service) buildHistoryMessages(messages []chat.Message) []*schema.Message {
	limit := s.interview.HistoryLimit
	if limit < 1 {
		limit = 1
	}

	if n := len(messages); n > 0 && messages[n-1].Role == chat.RoleUser {
		messages = messages[:n-1]
	}

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > limit {
		startIdx = len(messages) - limit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
