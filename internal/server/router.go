package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annomania/annomania-api/internal/handlers"
	"github.com/annomania/annomania-api/internal/middleware"
)

type RouterConfig struct {
	ServiceName string
	CORSOrigins []string

	IdentityMiddleware  *middleware.IdentityMiddleware
	SetAccessMiddleware *middleware.SetAccessMiddleware

	SetHandler         *handlers.SetHandler
	TextHandler        *handlers.TextHandler
	AnnotationHandler  *handlers.AnnotationHandler
	TrainingSetHandler *handlers.TrainingSetHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "annomania-api"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			middleware.HeaderConsumerID,
			middleware.HeaderConsumerUsername,
		},
	}))

	// Public
	router.GET("/", handlers.Hello)
	router.GET("/health-check", handlers.HealthCheck)

	// Everything under /set carries a gateway identity.
	sets := router.Group("/set")
	sets.Use(cfg.IdentityMiddleware.RequireConsumer())
	sets.GET("", cfg.SetHandler.List)
	sets.POST("", cfg.SetHandler.Create)

	one := sets.Group("/:setid")
	one.Use(cfg.SetAccessMiddleware.LoadSet())

	readable := one.Group("")
	readable.Use(cfg.SetAccessMiddleware.RequireReadable())
	readable.GET("", cfg.SetHandler.Get)
	readable.GET("/text", cfg.TextHandler.Fetch)
	readable.POST("/text/:textid/annotation", cfg.AnnotationHandler.Create)

	owned := one.Group("")
	owned.Use(cfg.SetAccessMiddleware.RequireOwner())
	owned.PUT("", cfg.SetHandler.Update)
	owned.DELETE("", cfg.SetHandler.Delete)
	owned.POST("/text", cfg.TextHandler.Add)
	owned.PUT("/text/:textid", cfg.TextHandler.Update)
	owned.DELETE("/text/:textid", cfg.TextHandler.Delete)
	owned.GET("/trainingset", cfg.TrainingSetHandler.Export)

	return router
}
