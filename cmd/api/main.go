package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/seanmiao/innerview/backend/internal/config"
	"github.com/seanmiao/innerview/backend/internal/handler"
	"github.com/seanmiao/innerview/backend/internal/service/ai"
	"github.com/seanmiao/innerview/backend/internal/service/chat"
	"github.com/seanmiao/innerview/backend/internal/service/extract"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatService := chat.NewService()

	// Select the model backend once at startup: live Ark model when
	// credentials are configured, canned placeholder otherwise. Missing
	// credentials are not an error, the interview just runs degraded.
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize Ark chat model: %v", err)
			log.Println("falling back to placeholder replies")
			chatModel = ai.NewPlaceholderModel(cfg.Interview.FallbackReply)
		} else {
			log.Println("Ark chat model initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, using placeholder replies")
		chatModel = ai.NewPlaceholderModel(cfg.Interview.FallbackReply)
	}

	aiService, err := ai.NewService(ctx, chatModel, cfg.AI, cfg.Interview)
	if err != nil {
		log.Fatalf("failed to initialize interview service: %v", err)
	}

	extractService, err := extract.NewService(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to initialize extraction service: %v", err)
	}

	router := handler.NewRouter(chatService, aiService, extractService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Innerview backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
