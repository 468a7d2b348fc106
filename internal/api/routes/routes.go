package routes

import (
	"time"

	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/api/handlers"
	"agri-marketplace-api-server/internal/api/middleware"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/market"
	"agri-marketplace-api-server/internal/models"
	"agri-marketplace-api-server/internal/orders"
	"agri-marketplace-api-server/internal/s3"
	"agri-marketplace-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Directory *accounts.Directory
	Catalog   *catalog.Service
	Engine    *market.Engine
	Ledger    *orders.Ledger
	Uploader  *s3.Uploader // nil when S3 is not configured
	Hub       *socket.Hub
	JWTSecret []byte
	JWTTTL    time.Duration
	Logger    *zap.Logger
}

// SetupRouter wires the handlers onto the API surface.
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	accountHandler := &handlers.AccountHandler{Directory: deps.Directory, JWTSecret: deps.JWTSecret, JWTTTL: deps.JWTTTL}
	productHandler := &handlers.ProductHandler{Catalog: deps.Catalog, Directory: deps.Directory, Hub: deps.Hub}
	marketHandler := &handlers.MarketHandler{Engine: deps.Engine}
	orderHandler := &handlers.OrderHandler{Ledger: deps.Ledger, Directory: deps.Directory, Hub: deps.Hub}
	adminHandler := &handlers.AdminHandler{Catalog: deps.Catalog, Directory: deps.Directory, Hub: deps.Hub}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, JWTSecret: deps.JWTSecret, Logger: deps.Logger}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === PUBLIC ROUTES ===

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", accountHandler.Register)
			auth.POST("/login", accountHandler.Login)
		}

		// Marketplace browsing is open: neither search nor the single-listing
		// view requires an account. The detail route still reads an optional
		// token so owners and admins can see unverified listings.
		apiV1.GET("/products", marketHandler.Search)
		apiV1.GET("/products/:id", middleware.AuthenticateOptional(deps.JWTSecret), productHandler.GetProduct)

		// === PROTECTED ROUTES ===

		authed := apiV1.Group("/")
		authed.Use(middleware.Authenticate(deps.JWTSecret))
		{
			authed.GET("/me", accountHandler.Me)

			// Farmer surface
			farmer := authed.Group("/")
			farmer.Use(middleware.Authorize(models.RoleFarmer))
			{
				farmer.POST("/products", productHandler.CreateProduct)
				farmer.DELETE("/products/:id", productHandler.DeleteProduct)
				farmer.GET("/my/products", productHandler.GetMyProducts)
				farmer.GET("/my/sales", orderHandler.GetMySales)

				if deps.Uploader != nil {
					uploadHandler := &handlers.UploadHandler{Uploader: deps.Uploader}
					farmer.POST("/uploads/product-image", uploadHandler.UploadProductImage)
				}
			}

			// Consumer surface
			consumer := authed.Group("/")
			consumer.Use(middleware.Authorize(models.RoleConsumer))
			{
				consumer.POST("/orders", orderHandler.Checkout)
				consumer.GET("/my/orders", orderHandler.GetMyOrders)
			}

			// Either side of an order may advance its status; the ledger
			// decides which transitions each party is allowed.
			authed.PATCH("/orders/:id/status",
				middleware.Authorize(models.RoleFarmer, models.RoleConsumer),
				orderHandler.UpdateStatus)

			// Admin surface
			admin := authed.Group("/admin")
			admin.Use(middleware.Authorize(models.RoleAdmin))
			{
				admin.GET("/products", adminHandler.GetProductsByStatus)
				admin.PATCH("/products/:id/status", adminHandler.SetStatus)
				admin.PATCH("/products/:id/featured", adminHandler.SetFeatured)
				admin.GET("/users", adminHandler.GetAllUsers)
			}
		}
	}

	return router
}
