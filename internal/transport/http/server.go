package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"reelfeed/internal/config"
	"reelfeed/internal/database"
	"reelfeed/internal/handler"
	"reelfeed/internal/repository"
	"reelfeed/internal/schema"
	"reelfeed/internal/service"
	"reelfeed/internal/webhook"
)

func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Ensure schema
	if err := schema.Ensure(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	// 4. Wire repositories and services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	identityService := service.NewIdentityService(userRepo)
	postService := service.NewPostService(postRepo)

	// Media is optional; without R2 config the avatar/presign endpoints
	// report unavailable instead of blocking startup
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		log.Printf("Media storage disabled: %v", err)
		mediaService = nil
	}

	var verifier *webhook.Verifier
	if cfg.WebhookSecret != "" {
		verifier, err = webhook.NewVerifier(cfg.WebhookSecret)
		if err != nil {
			return fmt.Errorf("failed to build webhook verifier: %w", err)
		}
	} else {
		log.Println("WEBHOOK_SIGNING_SECRET not set; webhook signature verification disabled")
	}

	// 5. Wire handlers and router
	router := NewRouter(RouterConfig{
		PostHandler:     handler.NewPostHandler(postService, identityService),
		ProfileHandler:  handler.NewProfileHandler(identityService, mediaService),
		IdentityHandler: handler.NewIdentityHandler(identityService, verifier),
		MediaHandler:    handler.NewMediaHandler(mediaService),
		AdminHandler:    handler.NewAdminHandler(db),
		DB:              db,
		SessionSecret:   cfg.SessionJWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
