package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cubstechnical/cubs-ems/internal/api/handlers"
	"github.com/cubstechnical/cubs-ems/internal/api/middleware"
)

type Deps struct {
	Auth         *handlers.AuthHandler
	Employee     *handlers.EmployeeHandler
	Document     *handlers.DocumentHandler
	Notification *handlers.NotificationHandler
	Dashboard    *handlers.DashboardHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public
	r.POST("/api/auth/register", d.Auth.Register)
	r.POST("/api/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/api")
	auth.Use(middleware.JWTAuth())

	auth.GET("/auth/me", d.Auth.Me)

	auth.GET("/employees", d.Employee.List)
	auth.POST("/employees", d.Employee.Create)
	auth.GET("/employees/:id", d.Employee.Get)
	auth.PUT("/employees/:id", d.Employee.Update)
	auth.DELETE("/employees/:id", d.Employee.Delete)

	auth.POST("/employees/:id/documents", d.Document.Upload)
	auth.GET("/documents", d.Document.List)
	auth.GET("/documents/:id/url", d.Document.SignedURL)
	auth.GET("/documents/:id/download", d.Document.Download)
	auth.DELETE("/documents/:id", d.Document.Delete)

	auth.GET("/notifications", d.Notification.List)
	auth.POST("/notifications/:id/read", d.Notification.MarkRead)
	auth.POST("/push-tokens", d.Notification.RegisterPushToken)
	auth.DELETE("/push-tokens/:token", d.Notification.DeactivatePushToken)

	auth.GET("/dashboard/summary", d.Dashboard.Summary)
	auth.GET("/dashboard/expiry-report.xlsx", d.Dashboard.ExpiryReport)

	// Admin-only
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/users/pending", d.Auth.PendingUsers)
	admin.POST("/users/:id/approve", d.Auth.ApproveUser)
	admin.POST("/users/:id/reject", d.Auth.RejectUser)
	admin.POST("/notifications/run", d.Notification.RunExpiryCheck)
	admin.GET("/audit-logs", d.Dashboard.AuditLogs)
}
