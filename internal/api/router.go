package api

import (
	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/api/handler"
	"github.com/modelsnapper/snapper_go_server/internal/api/middleware"
	"github.com/modelsnapper/snapper_go_server/internal/model"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	consentHandler   *handler.ConsentHandler
	billingHandler   *handler.BillingHandler
	webhookHandler   *handler.WebhookHandler
	renderHandler    *handler.RenderHandler
	avatarHandler    *handler.AvatarHandler
	feedbackHandler  *handler.FeedbackHandler
	publicHandler    *handler.PublicHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	roleResolver     middleware.RoleResolver
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	consentHandler *handler.ConsentHandler,
	billingHandler *handler.BillingHandler,
	webhookHandler *handler.WebhookHandler,
	renderHandler *handler.RenderHandler,
	avatarHandler *handler.AvatarHandler,
	feedbackHandler *handler.FeedbackHandler,
	publicHandler *handler.PublicHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	roleResolver middleware.RoleResolver,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		consentHandler:   consentHandler,
		billingHandler:   billingHandler,
		webhookHandler:   webhookHandler,
		renderHandler:    renderHandler,
		avatarHandler:    avatarHandler,
		feedbackHandler:  feedbackHandler,
		publicHandler:    publicHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		roleResolver:     roleResolver,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// provider callbacks: signature-verified, no session auth
	engine.POST("/webhooks/:provider", r.webhookHandler.Handle)

	api := engine.Group("/api/v1")
	{
		// WebSocket (token in query string)
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.GET("/login", r.authHandler.Login)
			auth.GET("/callback", r.authHandler.Callback)
		}

		// public surface
		api.GET("/models", r.publicHandler.ListModels)
		api.GET("/avatars", r.avatarHandler.List)
		api.GET("/avatars/:id", r.avatarHandler.Get)
		public := api.Group("/public")
		{
			public.GET("/plans", r.publicHandler.ListPlans)
			public.POST("/leads", r.publicHandler.CaptureLead)
			public.GET("/check-domain", r.publicHandler.CheckDomain)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/me", r.userHandler.GetMe)
				user.POST("/onboard", r.userHandler.Onboard)
				user.PUT("/profile", r.userHandler.UpdateProfile)
			}

			consents := authenticated.Group("/consents")
			{
				consents.POST("", middleware.RequireRole(r.roleResolver, model.RoleBusiness), r.consentHandler.Create)
				consents.GET("", middleware.RequireRole(r.roleResolver, model.RoleBusiness, model.RoleModel), r.consentHandler.List)
				consents.POST("/:id/approve", middleware.RequireRole(r.roleResolver, model.RoleModel), r.consentHandler.Approve)
				consents.POST("/:id/reject", middleware.RequireRole(r.roleResolver, model.RoleModel), r.consentHandler.Reject)
			}

			billing := authenticated.Group("/billing")
			{
				billing.GET("", r.billingHandler.GetBilling)
				billing.POST("/checkout", r.billingHandler.Checkout)
				billing.POST("/refresh", r.billingHandler.Refresh)
				billing.GET("/payments", r.billingHandler.ListPayments)
			}

			renders := authenticated.Group("/renders")
			renders.Use(middleware.RequireRole(r.roleResolver, model.RoleBusiness, model.RoleAdmin))
			{
				renders.POST("", r.renderHandler.Create)
				renders.GET("", r.renderHandler.List)
				renders.GET("/:id", r.renderHandler.Get)
			}

			authenticated.POST("/feedback", r.feedbackHandler.Submit)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret))
		admin.Use(middleware.RequireRole(r.roleResolver, model.RoleAdmin))
		{
			admin.GET("/users", r.adminHandler.ListUsers)
			admin.POST("/users/:id/credits", r.adminHandler.AdjustCredits)
			admin.POST("/avatars", r.adminHandler.CreateAvatar)
			admin.GET("/feedback", r.adminHandler.ListFeedback)
			admin.GET("/leads", r.adminHandler.ListLeads)
		}
	}

	return engine
}
