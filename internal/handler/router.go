package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seanmiao/innerview/backend/internal/handler/interview"
	"github.com/seanmiao/innerview/backend/internal/handler/stream"
	aiService "github.com/seanmiao/innerview/backend/internal/service/ai"
	chatService "github.com/seanmiao/innerview/backend/internal/service/chat"
	extractService "github.com/seanmiao/innerview/backend/internal/service/extract"
	"github.com/seanmiao/innerview/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, aiSvc *aiService.Service, extractSvc *extractService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	interviewHandler := interview.New(chatSvc, aiSvc, extractSvc)
	streamHandler := stream.New(aiSvc, chatSvc)

	r.Route("/api", func(api chi.Router) {
		interviewHandler.RegisterRoutes(api)

		// SSE variant of the chat operation.
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
