package interview

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seanmiao/innerview/backend/internal/model/chat"
	"github.com/seanmiao/innerview/backend/internal/model/profile"
	aiService "github.com/seanmiao/innerview/backend/internal/service/ai"
	chatService "github.com/seanmiao/innerview/backend/internal/service/chat"
	extractService "github.com/seanmiao/innerview/backend/internal/service/extract"
	"github.com/seanmiao/innerview/backend/pkg/utils"
)

// Handler exposes the interview chat and profile extraction endpoints.
type Handler struct {
	chatSvc    *chatService.Service
	aiSvc      *aiService.Service
	extractSvc *extractService.Service
}

// New creates the interview handler.
func New(chatSvc *chatService.Service, aiSvc *aiService.Service, extractSvc *extractService.Service) *Handler {
	return &Handler{
		chatSvc:    chatSvc,
		aiSvc:      aiSvc,
		extractSvc: extractSvc,
	}
}

// RegisterRoutes mounts the interview endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/extract", h.handleExtract)
}

// handleChat appends the user's message, generates the interviewer reply
// and appends that too. The two appends are individually atomic; two
// concurrent chats on one session may interleave turn order, which is
// accepted for single-user sessions rather than locking per session.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()

	// Unknown or absent session ids start a fresh interview.
	session, err := h.chatSvc.Resolve(ctx, payload.SessionID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to resolve session")
		return
	}

	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: session.ID,
		Role:      chat.RoleUser,
		Content:   message,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to record message")
		return
	}

	history, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}

	reply, err := h.aiSvc.GenerateReply(ctx, session.ID, history, message)
	if err != nil {
		// Model failures degrade to the fallback line, never to a 5xx.
		log.Printf("[interview] reply generation failed for session=%s, using fallback: %v", session.ID, err)
		reply = h.aiSvc.FallbackReply()
	}

	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: session.ID,
		Role:      chat.RoleAssistant,
		Content:   reply,
	}); err != nil {
		log.Printf("[interview] failed to record assistant turn for session=%s: %v", session.ID, err)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"session_id": session.ID,
		"message":    reply,
	})
}

// handleExtract runs the profile extractor over the full transcript of an
// existing session. Unlike chat it never creates a session: extraction
// without an interview is a client error.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.SessionID) == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ctx := r.Context()

	session, err := h.chatSvc.GetSession(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "unknown session, start the interview before requesting results")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	history, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}

	dimensions := h.extractSvc.Extract(ctx, history)
	logBandTally(session.ID, dimensions)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"interview_id": session.ID,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dimensions":   dimensions,
	})
}

func logBandTally(sessionID string, dimensions profile.Profile) {
	tally := map[profile.Band]int{}
	for _, result := range dimensions {
		tally[profile.ConfidenceBand(result.Confidence)]++
	}
	log.Printf("[interview] extracted profile for session=%s: high=%d moderate=%d low=%d",
		sessionID, tally[profile.BandHigh], tally[profile.BandModerate], tally[profile.BandLow])
}
