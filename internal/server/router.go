package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/KasperFyhn/ulgis/internal/handlers"
	"github.com/KasperFyhn/ulgis/internal/middleware"
)

type RouterConfig struct {
	GenerateHandler *handlers.GenerateHandler
	DataHandler     *handlers.DataHandler
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func allowedOrigins() []string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{
		"http://localhost:80",
		"http://localhost:3000",
		"http://localhost:5173",
	}
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("ulgis-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/auth/token", cfg.AuthHandler.Login)
	router.GET("/auth/current_user", cfg.AuthMiddleware.RequireAdmin(), cfg.AuthHandler.CurrentUser)

	generate := router.Group("/generate")
	{
		generate.GET("/generation_options_metadata", cfg.GenerateHandler.OptionsMetadata)
		generate.GET("/generation_options_metadata/:ui_level", cfg.GenerateHandler.OptionsMetadata)
		generate.POST("/create_prompt", cfg.GenerateHandler.CreatePrompt)
		generate.POST("/generate_response", cfg.GenerateHandler.GenerateResponse)
		generate.POST("/start_stream", cfg.GenerateHandler.StartStream)
		generate.GET("/stream_response/:token", cfg.GenerateHandler.StreamResponse)
	}

	data := router.Group("/data")
	{
		data.GET("/taxonomies", cfg.DataHandler.ListTaxonomies)
		data.GET("/taxonomy_descriptions", cfg.DataHandler.TaxonomyDescriptions)

		admin := data.Group("/")
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		admin.POST("/taxonomies", cfg.DataHandler.CreateTaxonomy)
		admin.PUT("/taxonomies/:id", cfg.DataHandler.UpdateTaxonomy)
		admin.DELETE("/taxonomies/:id", cfg.DataHandler.DeleteTaxonomy)
	}

	return router
}
