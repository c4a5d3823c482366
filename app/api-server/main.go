package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cubstechnical/cubs-ems/config"
	"github.com/cubstechnical/cubs-ems/internal/api/handlers"
	"github.com/cubstechnical/cubs-ems/internal/api/middleware"
	"github.com/cubstechnical/cubs-ems/internal/api/routes"
	"github.com/cubstechnical/cubs-ems/internal/cache"
	"github.com/cubstechnical/cubs-ems/internal/logger"
	"github.com/cubstechnical/cubs-ems/internal/mailer"
	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/storage"
	"github.com/cubstechnical/cubs-ems/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	// Object storage (Backblaze B2, S3-compatible)
	store, err := storage.NewB2Store(ctx, os.Getenv("B2_BUCKET"))
	if err != nil {
		log.Fatalf("B2 storage init error: %v", err)
	}

	// Outbound email
	smtpMailer, err := mailer.NewSMTPMailerFromEnv()
	if err != nil {
		log.Fatalf("SMTP init error: %v", err)
	}

	db := config.PostgresDB
	rdb := config.RedisClient
	appCache := cache.NewRedisCache(rdb, "ems")

	// Repositories
	employeeRepo := pgrepo.NewEmployeeRepo(db)
	documentRepo := pgrepo.NewDocumentRepo(db)
	profileRepo := pgrepo.NewProfileRepo(db)
	notificationRepo := pgrepo.NewNotificationRepo(db)
	notificationLogRepo := pgrepo.NewNotificationLogRepo(db)
	pushTokenRepo := pgrepo.NewPushTokenRepo(db)
	auditRepo := pgrepo.NewAuditLogRepo(db)

	// Services
	auditSvc := services.NewAuditService(auditRepo, l)
	authSvc := services.NewAuthService(profileRepo, notificationRepo)
	employeeSvc := services.NewEmployeeService(employeeRepo, appCache)
	documentSvc := services.NewDocumentService(documentRepo, employeeRepo, store)
	notificationSvc := services.NewNotificationService(notificationRepo)
	pushTokenSvc := services.NewPushTokenService(pushTokenRepo)
	dashboardSvc := services.NewDashboardService(employeeRepo, documentRepo, auditRepo, appCache)

	// Visa expiry scheduler
	notifier := &workers.ExpiryNotifier{
		Employees:     employeeRepo,
		Profiles:      profileRepo,
		Logs:          notificationLogRepo,
		Notifications: notificationRepo,
		Mailer:        smtpMailer,
		Redis:         rdb,
		Logger:        l,
		Location:      loadLocation(l),
		RunHour:       envInt("NOTIFY_RUN_HOUR", 8),
	}
	if err := notifier.Start(ctx); err != nil {
		log.Fatalf("expiry notifier init error: %v", err)
	}

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:         handlers.NewAuthHandler(authSvc, auditSvc),
		Employee:     handlers.NewEmployeeHandler(employeeSvc, auditSvc),
		Document:     handlers.NewDocumentHandler(documentSvc, auditSvc),
		Notification: handlers.NewNotificationHandler(notificationSvc, pushTokenSvc, notifier),
		Dashboard:    handlers.NewDashboardHandler(dashboardSvc, auditSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadLocation(l interface{ Warnf(string, ...any) }) *time.Location {
	name := os.Getenv("NOTIFY_TIMEZONE")
	if name == "" {
		name = "Asia/Dubai"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		l.Warnf("invalid NOTIFY_TIMEZONE %q, falling back to UTC", name)
		return time.UTC
	}
	return loc
}

func envInt(name string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return v
	}
	return def
}
