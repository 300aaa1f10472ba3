package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/config"
	"github.com/eberechi/shopsync-backend/internal/app/controller"
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"github.com/eberechi/shopsync-backend/internal/ws"
)

// Router wires the HTTP surface. Which routes exist depends on the server
// mode: a local install exposes the till API plus the sync engine, the
// central server exposes the sync API that local installs call.
type Router struct {
	authController      *controller.AuthController
	inventoryController *controller.InventoryController
	salesController     *controller.SalesController
	syncController      *controller.SyncController
	syncAPIController   *controller.SyncAPIController
	exportController    *controller.ExportController
	authMiddleware      *middleware.AuthMiddleware
	hub                 *ws.Hub
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	inventoryController *controller.InventoryController,
	salesController *controller.SalesController,
	syncController *controller.SyncController,
	syncAPIController *controller.SyncAPIController,
	exportController *controller.ExportController,
	authMiddleware *middleware.AuthMiddleware,
	hub *ws.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		inventoryController: inventoryController,
		salesController:     salesController,
		syncController:      syncController,
		syncAPIController:   syncAPIController,
		exportController:    exportController,
		authMiddleware:      authMiddleware,
		hub:                 hub,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
			"mode":   r.config.Server.Mode,
		})
	})

	if r.config.Server.Mode == "central" {
		r.setupCentralRoutes(router)
	} else {
		r.setupLocalRoutes(router)
	}

	return router
}

// setupLocalRoutes serves the desktop frontend: auth, till operations and
// the sync engine controls.
func (r *Router) setupLocalRoutes(router *gin.Engine) {
	router.GET("/sync_status", r.syncController.GetSyncStatus)
	if r.hub != nil {
		router.GET("/ws/sync_status", r.hub.ServeWS)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.POST("/change_password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		inventory := v1.Group("/inventory")
		inventory.Use(r.authMiddleware.Authenticate())
		{
			inventory.GET("", r.inventoryController.ListItems)
			inventory.GET("/low_stock", r.inventoryController.ListLowStock)
			inventory.GET("/expiring", r.inventoryController.ListExpiring)
			inventory.GET("/:id", r.inventoryController.GetItem)

			inventory.POST("",
				r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
				r.inventoryController.CreateItem,
			)
			inventory.PUT("/:id",
				r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
				r.inventoryController.UpdateItem,
			)
			inventory.DELETE("/:id",
				r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
				r.inventoryController.DeleteItem,
			)
		}

		sales := v1.Group("/sales")
		sales.Use(r.authMiddleware.Authenticate())
		{
			sales.GET("", r.salesController.ListSales)
			sales.GET("/:id", r.salesController.GetSale)
			sales.POST("",
				r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin, model.RoleSales),
				r.salesController.CreateSale,
			)
		}

		syncGroup := v1.Group("/sync")
		syncGroup.Use(r.authMiddleware.Authenticate())
		{
			syncGroup.POST("", r.syncController.TriggerSync)
			syncGroup.GET("/conflicts", r.syncController.ListConflicts)
			syncGroup.POST("/conflicts/:id/resolve",
				r.authMiddleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
				r.syncController.ResolveConflict,
			)
		}

		exports := v1.Group("/export")
		exports.Use(r.authMiddleware.Authenticate())
		{
			exports.GET("/inventory", r.exportController.ExportInventory)
			exports.GET("/sales", r.exportController.ExportSales)
		}
	}
}

// setupCentralRoutes serves the sync API consumed by local installs. Every
// route sits behind the shared API key.
func (r *Router) setupCentralRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyMiddleware(r.config.Server.APIKey))
	{
		v1.POST("/register_business_for_sync", r.syncAPIController.RegisterBusiness)
		v1.GET("/businesses/:id", r.syncAPIController.GetBusiness)
		v1.GET("/users/business/:id", r.syncAPIController.GetUsers)
		v1.GET("/inventory/business/:id", r.syncAPIController.GetInventory)
		v1.POST("/sales", r.syncAPIController.ReceiveSales)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
