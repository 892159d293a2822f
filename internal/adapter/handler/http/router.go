package http

import (
	"github.com/gin-gonic/gin"
	"github.com/grupo7/ecommerce-api/internal/adapter/config"
	"github.com/grupo7/ecommerce-api/internal/adapter/metrics"
	"github.com/grupo7/ecommerce-api/internal/core/port"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	serverMetrics *metrics.ServerMetrics,
	userHandler *UserHandler,
	productHandler *ProductHandler,
	orderHandler *OrderHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observeRequests(serverMetrics))

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	base := NewHandler(logger)

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/category/:category", productHandler.ListProductsByCategory)

			admin := products.Group("")
			{
				admin.Use(authCheck(tokenService, base))
				admin.POST("", productHandler.CreateProduct)
				admin.PATCH("/:id/stock", productHandler.AdjustStock)
				admin.DELETE("/:id", productHandler.DeactivateProduct)
			}
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService, base))
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrdersByUser)
			orders.GET("/number/:number", orderHandler.GetOrderByNumber)
			orders.GET("/status/:status", orderHandler.ListOrdersByStatus)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
