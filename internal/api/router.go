package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kvision/portal-api/internal/api/handler"
	"github.com/kvision/portal-api/internal/api/middleware"
	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers. Services
// are constructed in main so their lifecycles (content loading, persister
// shutdown) stay under the process supervisor.
type Dependencies struct {
	Log   zerolog.Logger
	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	Sessions  ports.SessionStore

	Auth      ports.AuthService
	Profiles  ports.ProfileService
	Content   ports.ContentService
	Messenger ports.MessengerService
	Assistant ports.AssistantService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	profileHandler := handler.NewProfileHandler(deps.Auth, deps.Profiles)
	contentHandler := handler.NewContentHandler(deps.Content)
	announcementHandler := handler.NewAnnouncementHandler(deps.Content)
	messageHandler := handler.NewMessageHandler(deps.Messenger)
	assistantHandler := handler.NewAssistantHandler(deps.Assistant)

	authRequired := middleware.Auth(deps.JWTSecret, deps.Sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/oauth/google", authHandler.OAuthStart)
	e.GET("/auth/oauth/callback", authHandler.OAuthCallback)
	e.GET("/auth/session", authHandler.Session, authRequired)
	e.POST("/auth/logout", authHandler.Logout, authRequired)

	// --- Public site content ---
	e.GET("/content", contentHandler.Get)
	e.GET("/announcements", announcementHandler.List)

	// --- Profile self-service ---
	profile := e.Group("/profile", authRequired)
	profile.GET("", profileHandler.Get)
	profile.PATCH("", profileHandler.Update)

	// --- Messenger ---
	e.GET("/contacts", messageHandler.Contacts, authRequired)
	messages := e.Group("/messages", authRequired)
	messages.GET("/stream", messageHandler.Stream)
	messages.GET("/:contactID", messageHandler.History)
	messages.POST("", messageHandler.Send)

	// --- Study assistant ---
	e.POST("/assistant", assistantHandler.Ask, authRequired)

	// --- Admin content management ---
	content := e.Group("/content", authRequired, adminOnly)
	content.PUT("/hero", contentHandler.UpdateHero)
	content.PUT("/stats/:id", contentHandler.UpdateStat)
	content.PUT("/modules/:id", contentHandler.UpdateModule)
	content.PUT("/about", contentHandler.UpdateAbout)
	content.PUT("/academics", contentHandler.UpdateAcademics)
	content.PUT("/academics/levels/:id", contentHandler.UpdateAcademicLevel)
	content.POST("/reset", contentHandler.Reset)

	announcements := e.Group("/announcements", authRequired, adminOnly)
	announcements.POST("", announcementHandler.Create)
	announcements.DELETE("/:id", announcementHandler.Delete)

	return e
}
