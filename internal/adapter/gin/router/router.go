package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"rest-user-service/api/swagger"
	"rest-user-service/internal/adapter/gin/handler"
	"rest-user-service/internal/adapter/gin/middleware"
	"rest-user-service/pkg/logger"
)

// Options carries everything SetupRouter wires together. Nil optional
// fields switch the matching feature off.
type Options struct {
	ServiceName    string
	AllowedOrigins []string
	SwaggerEnabled bool

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	UserResolver   middleware.UserIndexResolver

	RateLimiter *middleware.RateLimiter // optional
	Registry    *prometheus.Registry    // optional, enables /metrics
	Logger      *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(ginzap.RecoveryWithZap(opts.Logger, true))
	router.Use(logger.RequestIDMiddleware())
	router.Use(ginzap.Ginzap(opts.Logger, time.RFC3339, true))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from %s!", opts.ServiceName)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	if opts.SwaggerEnabled {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", swagger.Spec)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("", opts.UserHandler.ListUsers)
			users.POST("", opts.UserHandler.CreateUser)

			byID := users.Group("/:id", middleware.ResolveUserIndex(opts.UserResolver, opts.Logger))
			byID.GET("", opts.UserHandler.GetUser)
			byID.PUT("", opts.UserHandler.ReplaceUser)
			byID.PATCH("", opts.UserHandler.PatchUser)
			byID.DELETE("", opts.UserHandler.DeleteUser)
		}

		api.GET("/products", opts.ProductHandler.ListProducts)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
