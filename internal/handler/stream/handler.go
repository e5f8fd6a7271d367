package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/seanmiao/innerview/backend/internal/model/chat"
	aiService "github.com/seanmiao/innerview/backend/internal/service/ai"
	chatService "github.com/seanmiao/innerview/backend/internal/service/chat"
	"github.com/seanmiao/innerview/backend/pkg/utils"
)

// Handler serves the interviewer reply over Server-Sent Events. Transcript
// semantics match the REST chat endpoint: one user turn and one assistant
// turn per request, fallback reply included.
type Handler struct {
	aiService *aiService.Service
	chatSvc   *chatService.Service
}

// New creates a new stream handler.
func New(aiSvc *aiService.Service, chatSvc *chatService.Service) *Handler {
	return &Handler{
		aiService: aiSvc,
		chatSvc:   chatSvc,
	}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest streams the interviewer reply for an existing session.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to get session: %v", err))
		return err
	}

	messages, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to load conversation: %v", err))
		return err
	}

	userMsg := chat.Message{
		SessionID: session.ID,
		Role:      chat.RoleUser,
		Content:   userMessage,
	}
	if err := h.chatSvc.SaveMessage(ctx, userMsg); err != nil {
		log.Printf("failed to save user message: %v", err)
	} else {
		messages = append(messages, userMsg)
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: session.ID,
	})

	reply, err := h.dispatchReply(ctx, w, flusher, session.ID, messages, userMessage)
	if err != nil {
		// Degrade to the fallback line so the transcript still gains an
		// assistant turn and the client still gets a usable message.
		log.Printf("[stream] reply generation failed for session=%s, using fallback: %v", session.ID, err)
		reply = h.aiService.FallbackReply()
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: session.ID,
			Content:   reply,
		})
	}

	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: session.ID,
		Role:      chat.RoleAssistant,
		Content:   reply,
	}); err != nil {
		log.Printf("failed to save assistant message: %v", err)
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: session.ID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", session.ID)
	return nil
}

// dispatchReply streams chunk events when streaming is enabled, otherwise
// generates the full reply and sends it as a single message event.
func (h *Handler) dispatchReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, messages []chat.Message, userMessage string) (string, error) {
	if h.aiService.StreamingEnabled() {
		return h.streamReply(ctx, w, flusher, sessionID, messages, userMessage)
	}

	reply, err := h.aiService.GenerateReply(ctx, sessionID, messages, userMessage)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   reply,
	})

	return reply, nil
}

func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, messages []chat.Message, userMessage string) (string, error) {
	stream, err := h.aiService.StreamReply(ctx, messages, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response.Content, nil
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
