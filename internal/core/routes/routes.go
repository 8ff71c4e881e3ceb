package routes

import (
	"os"

	"github.com/Marcelo-Rosas/container-storage/internal/core/container"
	"github.com/Marcelo-Rosas/container-storage/internal/middleware"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"
	"github.com/Marcelo-Rosas/container-storage/pkg/security"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(c.Logger))
	router.Use(middleware.RecoveryMiddleware(c.Logger))
	router.Use(middleware.CORS(c.Config.CORSOrigin))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.TimeoutMiddleware(c.Config.RequestTimeout))

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)

	return router
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.AuthHandler.RegisterRoutes(router, security.JWTMiddleware(c.Tokens, c.Sessions))
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protected := router.Group("")
	protected.Use(security.JWTMiddleware(c.Tokens, c.Sessions))

	operator := security.Authorize(roles.Operator)
	admin := security.Authorize(roles.Admin)

	protected.GET("/dashboard", c.DashboardHandler.GetDashboard)

	protected.GET("/containers", c.ContainerHandler.GetContainers)
	protected.GET("/containers/export", c.ContainerHandler.ExportContainers)
	protected.GET("/containers/:id", c.ContainerHandler.GetContainer)
	protected.POST("/containers", operator, c.ContainerHandler.CreateContainer)
	protected.PATCH("/containers/:id", operator, c.ContainerHandler.UpdateContainer)
	protected.DELETE("/containers/:id", admin, c.ContainerHandler.RemoveContainer)

	protected.GET("/containers/:id/inventory", c.InventoryHandler.GetContainerItems)
	protected.POST("/containers/:id/inventory", operator, c.InventoryHandler.AddItem)
	protected.DELETE("/containers/:id/inventory/:itemId", operator, c.InventoryHandler.RemoveItem)

	protected.GET("/containers/:id/events", c.EventHandler.GetContainerEvents)
	protected.POST("/containers/:id/events", operator, c.EventHandler.RecordEvent)
	protected.GET("/event-types", c.EventHandler.GetEventTypes)

	protected.GET("/clients", c.ClientHandler.GetClients)
	protected.GET("/clients/:id", c.ClientHandler.GetClient)
	protected.POST("/clients", operator, c.ClientHandler.CreateClient)
	protected.PATCH("/clients/:id", operator, c.ClientHandler.UpdateClient)

	protected.GET("/container-types", c.ContainerTypeHandler.GetContainerTypes)
	protected.POST("/container-types", admin, c.ContainerTypeHandler.CreateContainerType)

	protected.GET("/users", admin, c.UserHandler.GetUserList)
	protected.GET("/users/:id", c.UserHandler.GetUser)
	protected.PATCH("/users/:id", admin, c.UserHandler.UpdateUser)

	protected.GET("/audit-logs/:type/:id", admin, c.AuditLogHandler.GetResourceLog)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(ctx *gin.Context) {
			ctx.File(openapiFilePath)
		})
		c.Logger.Info("Route /openapi.html registered")
	} else {
		c.Logger.Debug("API docs not found, /openapi.html is not registered", zap.String("path", openapiFilePath))
	}
}
