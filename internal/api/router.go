package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/nebari-dev/multiversion/docs" // Load swagger docs
	"github.com/nebari-dev/multiversion/internal/api/handlers"
	"github.com/nebari-dev/multiversion/internal/audit"
	"github.com/nebari-dev/multiversion/internal/config"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/store"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Prefix is the base path of every API route.
const Prefix = "/api/v1"

// Paths resolves redirect targets within the API.
type Paths struct {
	Prefix string
}

// CollectionURL returns the workspace collection path.
func (p Paths) CollectionURL() string {
	return p.Prefix + "/workspaces"
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB, flashStore flash.Store) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	wsHandler := handlers.NewWorkspaceHandler(
		store.NewWorkspaceRepository(db),
		audit.New(db),
		flashStore,
		Paths{Prefix: Prefix},
		slog.Default(),
	)

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group(Prefix)
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/version", handlers.GetVersion)

		// Workspace endpoints
		v1.GET("/workspaces", wsHandler.ListWorkspaces)
		v1.POST("/workspaces", wsHandler.CreateWorkspace)
		v1.GET("/workspaces/form", wsHandler.NewWorkspaceForm)
		v1.GET("/workspaces/:id", wsHandler.GetWorkspace)
		v1.GET("/workspaces/:id/form", wsHandler.EditWorkspaceForm)
		v1.PUT("/workspaces/:id", wsHandler.UpdateWorkspace)
		v1.DELETE("/workspaces/:id", wsHandler.DeleteWorkspace)

		// Flash messages
		v1.GET("/messages", wsHandler.GetMessages)
	}

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+handlers.SessionHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Location")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
