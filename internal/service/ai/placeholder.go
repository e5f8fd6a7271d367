package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// PlaceholderModel is the chat model used when no Ark credential is
// configured. Every call returns the same canned interviewer line, which
// keeps the whole flow usable offline: the interview degrades to a fixed
// prompt and extraction degrades to the all-empty dimension template
// (the canned line never parses as JSON).
type PlaceholderModel struct {
	reply string
}

var _ model.ChatModel = (*PlaceholderModel)(nil)

// NewPlaceholderModel returns a placeholder backend answering with reply.
func NewPlaceholderModel(reply string) *PlaceholderModel {
	return &PlaceholderModel{reply: reply}
}

// Generate returns the canned reply as a single assistant message.
func (m *PlaceholderModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(m.reply, nil), nil
}

// Stream returns the canned reply as a one-chunk stream.
func (m *PlaceholderModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(m.reply, nil)}), nil
}

// BindTools is a no-op; the placeholder never calls tools.
func (m *PlaceholderModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}
