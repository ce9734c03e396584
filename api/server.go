package api

import (
	"context"
	"net/http"
	"time"

	"github.com/example/marketplace/pkg/auth"
	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"github.com/example/marketplace/pkg/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries the constructed collaborators the server routes to.
type Deps struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Carts    repository.CartRepository
	Orders   repository.OrderRepository
	Vendors  repository.VendorProfileRepository
	Cache    *repository.Cache // optional
	Storage  Pinger            // optional
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	tokens *auth.TokenIssuer

	users    repository.UserRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	vendors  repository.VendorProfileRepository
	cache    *repository.Cache
	storage  Pinger
}

func New(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		tokens:   auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		users:    deps.Users,
		products: deps.Products,
		carts:    deps.Carts,
		orders:   deps.Orders,
		vendors:  deps.Vendors,
		cache:    deps.Cache,
		storage:  deps.Storage,
	}
}

func (s *Server) SetupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/", s.root)
		api.GET("/health", s.health)

		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.GET("/auth/me", s.authenticate(), s.me)

		// Public catalog
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.GET("/categories", s.listCategories)

		// Public vendor listings
		api.GET("/vendors/all", s.listApprovedVendors)
		api.GET("/vendors/nearby", s.nearbyVendors)
		api.GET("/vendors/:id", s.getVendorProfile)

		// Vendor store profile
		api.POST("/vendors/profile", s.authenticate(), s.requireRoles(models.RoleVendor), s.createVendorProfile)
		api.GET("/vendors/profile", s.authenticate(), s.requireRoles(models.RoleVendor), s.myVendorProfile)

		// Cart
		cart := api.Group("/cart", s.authenticate())
		{
			cart.GET("", s.getCart)
			cart.POST("/add", s.addToCart)
			cart.PUT("/update", s.updateCartItem)
			cart.POST("/remove", s.removeFromCart)
			cart.DELETE("/clear", s.clearCart)
		}

		// Orders
		orders := api.Group("/orders", s.authenticate())
		{
			orders.POST("", s.requireRoles(models.RoleCustomer), s.createOrder)
			orders.GET("", s.requireRoles(models.RoleCustomer), s.listMyOrders)
			orders.GET("/vendor", s.requireRoles(models.RoleVendor), s.listVendorOrders)
			orders.GET("/:id", s.getOrder)
			orders.PUT("/:id/status", s.requireRoles(models.RoleVendor, models.RoleAdmin), s.updateOrderStatus)
		}

		// Vendor panel
		vendor := api.Group("/vendor", s.authenticate(), s.requireRoles(models.RoleVendor, models.RoleAdmin))
		{
			vendor.GET("/products", s.listVendorProducts)
			vendor.POST("/products", s.createProduct)
			vendor.PUT("/products/:id", s.updateProduct)
			vendor.DELETE("/products/:id", s.deleteProduct)
			vendor.GET("/orders", s.listVendorPanelOrders)
			vendor.GET("/dashboard", s.vendorDashboard)
		}

		// Admin
		admin := api.Group("/admin", s.authenticate(), s.requireRoles(models.RoleAdmin))
		{
			admin.GET("/statistics", s.adminStatistics)
			admin.GET("/users", s.adminListUsers)
			admin.GET("/vendors", s.adminListVendors)
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the underlying engine, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": s.config.Server.Name + " API v1.0", "status": "running"})
}

func (s *Server) health(c *gin.Context) {
	resp := gin.H{"status": "healthy", "timestamp": time.Now().UTC()}
	if s.storage != nil {
		if err := s.storage.Ping(c.Request.Context()); err != nil {
			s.logger.Warn("Storage ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "storage unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
