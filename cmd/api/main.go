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

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/salesdesk-api/docs" // Swagger docs
	"github.com/sjperalta/salesdesk-api/internal/config"
	"github.com/sjperalta/salesdesk-api/internal/database"
	"github.com/sjperalta/salesdesk-api/internal/handlers"
	"github.com/sjperalta/salesdesk-api/internal/jobs"
	"github.com/sjperalta/salesdesk-api/internal/middleware"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/internal/services"
	"github.com/sjperalta/salesdesk-api/internal/token"
	"github.com/sjperalta/salesdesk-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title SalesDesk API
// @version 1.0
// @description REST API for the SalesDesk real estate CRM

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Refuses to start without DATABASE_URL or JWT_SECRET
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if !cfg.EmailEnabled() {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		logger.Error("Failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("Database schema migrated")
	}

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, tokens, cfg)

	scheduleJobs(svcs)

	h := handlers.NewHandlers(svcs)

	router := setupRouter(h, tokens, middleware.DefaultPolicy, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// route registers one protected endpoint behind the role gate.
type route struct {
	group  *gin.RouterGroup
	policy middleware.Policy
	ops    []middleware.Operation
}

func (r *route) handle(method, path string, op middleware.Operation, handler gin.HandlerFunc) {
	r.ops = append(r.ops, op)
	r.group.Handle(method, path, r.policy.Require(op), handler)
}

func setupRouter(h *handlers.Handlers, tokens middleware.TokenValidator, policy middleware.Policy, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestContext())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Index)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(tokens))
	r := &route{group: protected, policy: policy}

	r.handle(http.MethodGet, "/me", "me.get", h.Auth.Me)

	r.handle(http.MethodGet, "/users", "users.list", h.User.Index)
	r.handle(http.MethodPost, "/users", "users.create", h.User.Create)

	r.handle(http.MethodGet, "/projects", "projects.list", h.Project.Index)
	r.handle(http.MethodPost, "/projects", "projects.create", h.Project.Create)
	r.handle(http.MethodGet, "/projects/:id", "projects.get", h.Project.Show)
	r.handle(http.MethodPatch, "/projects/:id", "projects.update", h.Project.Update)
	r.handle(http.MethodDelete, "/projects/:id", "projects.delete", h.Project.Delete)

	r.handle(http.MethodGet, "/inventory", "inventory.list", h.Inventory.Index)
	r.handle(http.MethodPost, "/inventory", "inventory.create", h.Inventory.Create)
	r.handle(http.MethodGet, "/inventory/:id", "inventory.get", h.Inventory.Show)
	r.handle(http.MethodPatch, "/inventory/:id", "inventory.update", h.Inventory.Update)
	r.handle(http.MethodDelete, "/inventory/:id", "inventory.delete", h.Inventory.Delete)

	// Static segments before :id
	r.handle(http.MethodGet, "/leads/export", "leads.export", h.Analytics.ExportLeads)
	r.handle(http.MethodGet, "/leads", "leads.list", h.Lead.Index)
	r.handle(http.MethodPost, "/leads", "leads.create", h.Lead.Create)
	r.handle(http.MethodGet, "/leads/:id", "leads.get", h.Lead.Show)
	r.handle(http.MethodPatch, "/leads/:id", "leads.update", h.Lead.Update)
	r.handle(http.MethodDelete, "/leads/:id", "leads.delete", h.Lead.Delete)
	r.handle(http.MethodGet, "/leads/:id/meetings", "meetings.list", h.Meeting.IndexForLead)
	r.handle(http.MethodGet, "/leads/:id/visits", "visits.list", h.Visit.IndexForLead)

	r.handle(http.MethodGet, "/meetings", "meetings.list", h.Meeting.Index)
	r.handle(http.MethodPost, "/meetings", "meetings.create", h.Meeting.Create)
	r.handle(http.MethodGet, "/meetings/:id", "meetings.get", h.Meeting.Show)
	r.handle(http.MethodPatch, "/meetings/:id", "meetings.update", h.Meeting.Update)
	r.handle(http.MethodDelete, "/meetings/:id", "meetings.delete", h.Meeting.Delete)

	r.handle(http.MethodGet, "/visits", "visits.list", h.Visit.Index)
	r.handle(http.MethodPost, "/visits", "visits.create", h.Visit.Create)
	r.handle(http.MethodGet, "/visits/:id", "visits.get", h.Visit.Show)
	r.handle(http.MethodPatch, "/visits/:id", "visits.update", h.Visit.Update)
	r.handle(http.MethodDelete, "/visits/:id", "visits.delete", h.Visit.Delete)

	r.handle(http.MethodGet, "/logs", "logs.list", h.Audit.Index)
	r.handle(http.MethodGet, "/logs/export", "logs.export", h.Audit.Export)

	r.handle(http.MethodGet, "/notifications", "notifications.list", h.Notification.Index)
	r.handle(http.MethodPost, "/notifications/mark_all_as_read", "notifications.mark_all", h.Notification.MarkAllAsRead)
	r.handle(http.MethodPost, "/notifications/:id/mark_as_read", "notifications.mark", h.Notification.MarkAsRead)

	r.handle(http.MethodGet, "/analytics/overview", "analytics.overview", h.Analytics.Overview)

	r.handle(http.MethodGet, "/jobs/status", "jobs.status", h.Job.Status)

	for _, problem := range policy.Validate(r.ops...) {
		logger.Warn("role policy problem", "problem", problem)
	}

	return router
}

func scheduleJobs(svcs *services.Services) {
	// Daily e-mail with each assignee's meetings for the day
	svcs.Jobs.Every("meeting_reminders", 24*time.Hour, false, func(ctx context.Context) error {
		n, err := svcs.Reminder.SendDailyMeetingReminders(ctx)
		if err != nil {
			return err
		}
		logger.Info("Sent meeting reminders", "users", n)
		return nil
	})

	svcs.Jobs.Every("analytics_cache_cleanup", time.Hour, false, svcs.Analytics.CleanCache)

	svcs.Jobs.Every("refresh_token_purge", 6*time.Hour, true, func(ctx context.Context) error {
		n, err := svcs.Auth.PurgeExpiredRefreshTokens(ctx)
		if err == nil && n > 0 {
			logger.Info("Purged expired refresh tokens", "count", n)
		}
		return err
	})

	logger.Info("Scheduled recurring jobs")
}
