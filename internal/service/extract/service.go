package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/seanmiao/innerview/backend/internal/model/chat"
	"github.com/seanmiao/innerview/backend/internal/model/profile"
)

// Service derives a personality profile from an interview transcript by
// asking the chat model for one assessment per schema dimension. The
// contract is total: Extract always returns the complete dimension key
// set, falling back to empty results whenever the model output is missing
// or unusable.
type Service struct {
	extractor compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the extraction chain over the supplied chat model.
// The model is shared with the interview engine so both follow the same
// live-or-placeholder strategy chosen at startup.
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(extractionSystemPrompt),
		schema.UserMessage(extractionUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile extraction chain: %w", err)
	}

	return &Service{extractor: runnable}, nil
}

// Extract runs the extraction chain over the transcript. An empty
// transcript still runs; there is simply nothing for the model to ground
// its read in, so expect low confidence or the empty template.
func (s *Service) Extract(ctx context.Context, history []chat.Message) profile.Profile {
	input := map[string]any{
		"dimensions": describeDimensions(),
		"transcript": formatTranscript(history),
	}

	msg, err := s.extractor.Invoke(ctx, input)
	if err != nil {
		log.Printf("[extract] extraction invoke failed, returning empty template: %v", err)
		return profile.EmptyTemplate()
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return profile.EmptyTemplate()
	}

	parsed, err := parseExtractionOutput(msg.Content)
	if err != nil {
		log.Printf("[extract] extraction output parse failed, returning empty template: %v", err)
		return profile.EmptyTemplate()
	}

	return coerceProfile(parsed)
}

// parseExtractionOutput pulls the JSON object out of the model reply.
// Models tend to wrap JSON in prose or code fences, so only the outermost
// brace-delimited span is decoded.
func parseExtractionOutput(content string) (map[string]dimensionPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := make(map[string]dimensionPayload)
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// coerceProfile forces the parsed payload into the fixed schema: every
// dimension key is present, confidence stays within [0,1], evidence is
// never nil. Keys the model invented are dropped.
func coerceProfile(parsed map[string]dimensionPayload) profile.Profile {
	result := profile.EmptyTemplate()
	for _, dim := range profile.Schema() {
		payload, ok := parsed[dim.Key]
		if !ok {
			continue
		}

		evidence := make([]string, 0, len(payload.SupportingEvidence))
		for _, quote := range payload.SupportingEvidence {
			if trimmed := strings.TrimSpace(quote); trimmed != "" {
				evidence = append(evidence, trimmed)
			}
		}

		result[dim.Key] = profile.Result{
			Assessment:         strings.TrimSpace(payload.Assessment),
			Confidence:         clampConfidence(payload.Confidence),
			SupportingEvidence: evidence,
		}
	}
	return result
}

func describeDimensions() string {
	dims := profile.Schema()
	lines := make([]string, 0, len(dims))
	for _, dim := range dims {
		lines = append(lines, fmt.Sprintf("- %q: %s", dim.Key, dim.Prompt))
	}
	return strings.Join(lines, "\n")
}

func formatTranscript(messages []chat.Message) string {
	if len(messages) == 0 {
		return "(no conversation yet)"
	}

	var builder strings.Builder
	for i, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		builder.WriteString(msg.Role)
		builder.WriteString(": ")
		builder.WriteString(content)
		if i < len(messages)-1 {
			builder.WriteString("\n")
		}
	}
	if builder.Len() == 0 {
		return "(no conversation yet)"
	}
	return builder.String()
}

func clampConfidence(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}

type dimensionPayload struct {
	Assessment         string   `json:"assessment"`
	Confidence         float64  `json:"confidence"`
	SupportingEvidence []string `json:"supporting_evidence"`
}

const extractionSystemPrompt = "You are a personality analyst. Return valid JSON only."

const extractionUserPrompt = `Below is a transcript of a personality interview. Your job is to write a personality read for each dimension listed below.

IMPORTANT INSTRUCTIONS:
- For each dimension, write the "assessment" as a SHORT NARRATIVE PARAGRAPH (2-4 sentences) describing your read on this person. Write it like you are explaining this person to someone who wants to understand them deeply. Use second person ("they") perspective.
- Do NOT just restate what they said. Interpret it. Read between the lines. Explain what it reveals about who they are.
- For "supporting_evidence", pull 1-3 direct or near-direct quotes from the transcript that support your read.
- For "confidence", rate 0.0-1.0 how confident you are based on how much evidence the conversation provided for that dimension. If the conversation barely touched on it, give low confidence and still provide your best guess.

DIMENSIONS:
{dimensions}

TRANSCRIPT:
{transcript}

Return a JSON object. Keys are the dimension names listed above. Each value is an object with:
- "assessment": string (your narrative read)
- "confidence": number (0.0 to 1.0)
- "supporting_evidence": array of strings (quotes from the transcript)

Return ONLY the JSON object, no other text.`
