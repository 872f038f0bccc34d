package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cinememory/backend/internal/handlers"
	"github.com/cinememory/backend/internal/middleware"
	"github.com/cinememory/backend/internal/types"
)

type RouterConfig struct {
	SearchHandler     *handlers.SearchHandler
	PipelineHandler   *handlers.PipelineHandler
	ModulesHandler    *handlers.ModulesHandler
	MoviesHandler     *handlers.MoviesHandler
	ComplianceHandler *handlers.ComplianceHandler
	APIKeyMiddleware  *middleware.APIKeyMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-API-Key"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/search", cfg.SearchHandler.Search)
		api.POST("/search/feedback", cfg.SearchHandler.Feedback)
		api.POST("/pipeline", cfg.PipelineHandler.Execute)
		api.GET("/pipeline/logs", cfg.PipelineHandler.RecentLogs)
		api.GET("/movies/by-genre", cfg.MoviesHandler.ByGenre)
		api.GET("/compliance/checklist", cfg.ComplianceHandler.Checklist)

		modules := api.Group("/modules")
		{
			modules.POST("/genre-classifier",
				cfg.APIKeyMiddleware.RateLimit(types.ModuleGenreClassifier),
				cfg.ModulesHandler.ClassifyGenre)
			modules.POST("/feedback-handler",
				cfg.APIKeyMiddleware.RateLimit(types.ModuleFeedbackHandler),
				cfg.ModulesHandler.HandleFeedback)
		}
	}

	return router
}
