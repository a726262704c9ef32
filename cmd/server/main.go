package main

import (
	"context"
	"fmt"
	"log"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/api"
	"github.com/modelsnapper/snapper_go_server/internal/api/handler"
	"github.com/modelsnapper/snapper_go_server/internal/database"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/cron"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/email"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/identity"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/oss"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/payment"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/pubsub"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/queue"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/ws"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	var emailService *email.Service
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewService(&cfg.Email)
		log.Println("Email service initialized")
	}

	renderQueue := queue.NewQueue(rdb, cfg.Queue.RenderQueue)

	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// forward render progress from the workers to connected dashboards
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg})
		})
		if err != nil && err != context.Canceled {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()

	idClient := identity.NewClient(&cfg.Identity)
	stateStore := identity.NewStateStore(rdb)

	providers := map[string]payment.Provider{
		model.ProviderStripe:       payment.NewStripe(&cfg.Payment.Stripe),
		model.ProviderLemonSqueezy: payment.NewLemonSqueezy(&cfg.Payment.LemonSqueezy),
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	consentRepo := repository.NewConsentRepository(db)
	renderRepo := repository.NewRenderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	avatarRepo := repository.NewAvatarRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	identityService := service.NewIdentityService(userRepo, profileRepo, idClient, stateStore, cfg)
	consentService := service.NewConsentService(consentRepo, profileRepo, userRepo, emailService, cfg)
	creditService := service.NewCreditService(userRepo, paymentRepo, cfg)
	billingService := service.NewBillingService(userRepo, paymentRepo, providers, cfg)
	renderService := service.NewRenderService(renderRepo, avatarRepo, profileRepo, creditService, consentService, ossClient, renderQueue, cfg)
	profileService := service.NewProfileService(profileRepo, userRepo)
	avatarService := service.NewAvatarService(avatarRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	authHandler := handler.NewAuthHandler(identityService)
	userHandler := handler.NewUserHandler(identityService)
	consentHandler := handler.NewConsentHandler(consentService)
	billingHandler := handler.NewBillingHandler(billingService)
	webhookHandler := handler.NewWebhookHandler(billingService)
	renderHandler := handler.NewRenderHandler(renderService, cfg)
	avatarHandler := handler.NewAvatarHandler(avatarService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	publicHandler := handler.NewPublicHandler(billingService, profileService, feedbackService)
	adminHandler := handler.NewAdminHandler(userRepo, creditService, avatarService, feedbackService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	cronService := cron.NewService(consentService, creditService)
	cronService.Start()
	defer cronService.Stop()

	router := api.NewRouter(
		authHandler,
		userHandler,
		consentHandler,
		billingHandler,
		webhookHandler,
		renderHandler,
		avatarHandler,
		feedbackHandler,
		publicHandler,
		adminHandler,
		websocketHandler,
		identityService,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
