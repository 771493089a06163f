package api

import (
	"jurisai-api/internal/middleware"
	"jurisai-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. jwtService may be nil to disable
// authentication.
func SetupRoutes(handlers *Handlers, jwtService *services.JWTService) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(corsMiddleware())

	// API routes
	api := router.Group("/api")
	api.Use(middleware.AuthenticateUser(jwtService))
	{
		api.POST("/legal-query", handlers.LegalQueryHandler)
		api.POST("/analyze-document", handlers.AnalyzeDocumentHandler)
		api.POST("/upload-document", handlers.UploadDocumentHandler)
		api.POST("/client-intake", handlers.ClientIntakeHandler)

		api.GET("/task-status/:taskId", handlers.GetTaskStatusHandler)
		api.GET("/task-status/:taskId/ws", handlers.TaskStatusStreamHandler)
		api.GET("/tasks", handlers.ListTasksHandler)
		api.GET("/tasks/:taskId/pdf", handlers.TaskPDFHandler)
	}

	// Health check and root banner (no auth required)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/", handlers.RootHandler)

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
