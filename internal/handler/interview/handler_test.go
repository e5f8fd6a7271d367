package interview_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/seanmiao/innerview/backend/internal/config"
	"github.com/seanmiao/innerview/backend/internal/handler/interview"
	chatmodel "github.com/seanmiao/innerview/backend/internal/model/chat"
	"github.com/seanmiao/innerview/backend/internal/model/profile"
	aiservice "github.com/seanmiao/innerview/backend/internal/service/ai"
	chatservice "github.com/seanmiao/innerview/backend/internal/service/chat"
	extractservice "github.com/seanmiao/innerview/backend/internal/service/extract"
)

type stubChatModel struct {
	reply string
	err   error
	calls [][]*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *stubChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func setupRouter(t *testing.T, model einomodel.ChatModel) (*chi.Mux, *chatservice.Service) {
	t.Helper()

	chatSvc := chatservice.NewService()
	aiSvc, err := aiservice.NewService(context.Background(), model, config.AIConfig{}, config.InterviewConfig{
		FallbackReply: "fallback line",
		HistoryLimit:  20,
	})
	if err != nil {
		t.Fatalf("ai.NewService err: %v", err)
	}
	extractSvc, err := extractservice.NewService(context.Background(), model)
	if err != nil {
		t.Fatalf("extract.NewService err: %v", err)
	}

	handler := interview.New(chatSvc, aiSvc, extractSvc)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func postJSON(t *testing.T, r http.Handler, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatCreatesSessionAndAppendsTurns(t *testing.T) {
	stub := &stubChatModel{reply: "What made today feel good?"}
	r, chatSvc := setupRouter(t, stub)

	resp := postJSON(t, r, "/chat", map[string]any{"session_id": nil, "message": "Hello"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.SessionID == "" {
		t.Fatal("expected freshly minted session id")
	}
	if body.Message != stub.reply {
		t.Fatalf("unexpected reply: %q", body.Message)
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), body.SessionID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(transcript))
	}
	if transcript[0].Role != chatmodel.RoleUser || transcript[0].Content != "Hello" {
		t.Fatalf("unexpected first turn: %+v", transcript[0])
	}
	if transcript[1].Role != chatmodel.RoleAssistant || transcript[1].Content != stub.reply {
		t.Fatalf("unexpected second turn: %+v", transcript[1])
	}
}

func TestChatReusesSessionAndFeedsHistoryToModel(t *testing.T) {
	stub := &stubChatModel{reply: "Tell me more about that."}
	r, _ := setupRouter(t, stub)

	first := postJSON(t, r, "/chat", map[string]any{"message": "Hello"})
	var firstBody struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &firstBody); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	second := postJSON(t, r, "/chat", map[string]any{"session_id": firstBody.SessionID, "message": "I like quiet places"})
	var secondBody struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &secondBody); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if secondBody.SessionID != firstBody.SessionID {
		t.Fatalf("expected session reuse, got %s vs %s", secondBody.SessionID, firstBody.SessionID)
	}

	postJSON(t, r, "/chat", map[string]any{"session_id": firstBody.SessionID, "message": "mostly libraries"})

	if len(stub.calls) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(stub.calls))
	}
	// The third prompt must replay both prior exchanges.
	var sawHello, sawQuiet bool
	for _, msg := range stub.calls[2] {
		if strings.Contains(msg.Content, "Hello") {
			sawHello = true
		}
		if strings.Contains(msg.Content, "I like quiet places") {
			sawQuiet = true
		}
	}
	if !sawHello || !sawQuiet {
		t.Fatalf("expected prior turns in third prompt, hello=%v quiet=%v", sawHello, sawQuiet)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	stub := &stubChatModel{reply: "unused"}
	r, _ := setupRouter(t, stub)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no model call, got %d", len(stub.calls))
	}
}

func TestChatFallsBackWhenModelFails(t *testing.T) {
	stub := &stubChatModel{err: errors.New("backend down")}
	r, chatSvc := setupRouter(t, stub)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "Hello"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 despite model failure, got %d", resp.Code)
	}

	var body struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Message != "fallback line" {
		t.Fatalf("expected fallback reply, got %q", body.Message)
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), body.SessionID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 2 || transcript[1].Content != "fallback line" {
		t.Fatalf("expected fallback recorded as assistant turn, got %+v", transcript)
	}
}

func TestExtractUnknownSession(t *testing.T) {
	stub := &stubChatModel{reply: "{}"}
	r, _ := setupRouter(t, stub)

	resp := postJSON(t, r, "/extract", map[string]any{"session_id": "nope"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	// A failed extract must not create the session as a side effect.
	again := postJSON(t, r, "/extract", map[string]any{"session_id": "nope"})
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on retry, got %d", again.Code)
	}
}

func TestExtractMissingSessionID(t *testing.T) {
	stub := &stubChatModel{reply: "{}"}
	r, _ := setupRouter(t, stub)

	resp := postJSON(t, r, "/extract", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestExtractReturnsFullDimensionSet(t *testing.T) {
	stub := &stubChatModel{reply: `{"relationship_with_family": {"assessment": "Close-knit.", "confidence": 0.75, "supporting_evidence": ["we talk every day"]}}`}
	r, _ := setupRouter(t, stub)

	chatResp := postJSON(t, r, "/chat", map[string]any{"message": "we talk every day"})
	var chatBody struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(chatResp.Body.Bytes(), &chatBody); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	resp := postJSON(t, r, "/extract", map[string]any{"session_id": chatBody.SessionID})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		InterviewID string                    `json:"interview_id"`
		Timestamp   string                    `json:"timestamp"`
		Dimensions  map[string]profile.Result `json:"dimensions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.InterviewID != chatBody.SessionID {
		t.Fatalf("expected interview_id %s, got %s", chatBody.SessionID, body.InterviewID)
	}
	if body.Timestamp == "" {
		t.Fatal("expected timestamp")
	}
	if len(body.Dimensions) != len(profile.Schema()) {
		t.Fatalf("expected %d dimensions, got %d", len(profile.Schema()), len(body.Dimensions))
	}
	family := body.Dimensions["relationship_with_family"]
	if family.Assessment != "Close-knit." || family.Confidence != 0.75 {
		t.Fatalf("unexpected family result: %+v", family)
	}
	for _, dim := range profile.Schema() {
		if _, ok := body.Dimensions[dim.Key]; !ok {
			t.Fatalf("missing dimension %s in response", dim.Key)
		}
	}
}
