package main

import (
	"fmt"
	"os"

	"github.com/cinememory/backend/internal/db"
	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/handlers"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/middleware"
	"github.com/cinememory/backend/internal/pipeline"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/server"
	"github.com/cinememory/backend/internal/services"
	"github.com/cinememory/backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	serverPort := utils.GetEnv("SERVER_PORT", "8080", log)
	keywordConfigPath := utils.GetEnv("KEYWORD_CONFIG_PATH", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	movieRepo := repos.NewMovieRepo(thePG, log)
	sessionRepo := repos.NewSearchSessionRepo(thePG, log)
	candidateRepo := repos.NewCandidateRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	failureLogRepo := repos.NewFailureLogRepo(thePG, log)
	movieTagRepo := repos.NewMovieTagRepo(thePG, log)
	decisionLogRepo := repos.NewDecisionLogRepo(thePG, log)
	apiAuditLogRepo := repos.NewAPIAuditLogRepo(thePG, log)
	apiKeyRepo := repos.NewAPIKeyRepo(thePG, log)
	commercialRepo := repos.NewCommercialTransitionRepo(thePG, log)
	shareAuditRepo := repos.NewShareAuditRepo(thePG, log)
	piiAuditLogRepo := repos.NewPIIAuditLogRepo(thePG, log)

	// Gates
	log.Info("Setting up Gates from main...")
	sessionEndGate := gates.NewSessionEndGate(sessionRepo, log)
	tagDecisionGate := gates.NewTagDecisionGate(movieTagRepo, log)
	apiAuditGate := gates.NewAPIAuditGate(apiAuditLogRepo, apiKeyRepo, log)
	commercialGate := gates.NewCommercialTransitionGate(commercialRepo, log)
	shareBlockingGate := gates.NewShareBlockingGate(shareAuditRepo, log)
	piiAuditGate := gates.NewPIIAuditGate(piiAuditLogRepo, log)

	// Pipeline
	log.Info("Setting up Pipeline from main...")
	keywordConfig := pipeline.DefaultKeywordConfig()
	if keywordConfigPath != "" {
		loaded, err := pipeline.LoadKeywordConfig(keywordConfigPath)
		if err != nil {
			log.Fatal("Failed to load keyword config", "path", keywordConfigPath, "error", err)
		}
		keywordConfig = loaded
	}
	intentClassifier := pipeline.NewIntentClassifier(keywordConfig)
	decisionLogger := pipeline.NewDecisionLogger(decisionLogRepo, log)
	executor := pipeline.NewExecutor(intentClassifier, pipeline.NewStaticSolverRunner(), decisionLogger, log)

	// Services
	log.Info("Setting up Services from main...")
	genreClassifier := services.NewGenreClassifier(apiAuditGate, log)
	candidateRanker := services.NewCandidateRanker(movieRepo, apiAuditGate, log)
	questionSelector := services.NewQuestionSelector(apiAuditGate, log)
	searchService := services.NewSearchService(sessionRepo, movieRepo, candidateRepo, questionRepo, genreClassifier, candidateRanker, questionSelector, log)
	feedbackHandler := services.NewFeedbackHandler(feedbackRepo, sessionRepo, failureLogRepo, sessionEndGate, apiAuditGate, log)
	movieCatalog := services.NewMovieCatalog(movieRepo, log)
	checklistService := services.NewChecklistService(sessionEndGate, tagDecisionGate, commercialGate, shareBlockingGate, piiAuditGate, log)

	// Handlers
	log.Info("Setting up Handlers from main...")
	searchHandler := handlers.NewSearchHandler(searchService, feedbackHandler)
	pipelineHandler := handlers.NewPipelineHandler(executor, decisionLogger)
	modulesHandler := handlers.NewModulesHandler(genreClassifier, feedbackHandler)
	moviesHandler := handlers.NewMoviesHandler(movieCatalog)
	complianceHandler := handlers.NewComplianceHandler(checklistService)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(log, apiAuditGate)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SearchHandler:     searchHandler,
		PipelineHandler:   pipelineHandler,
		ModulesHandler:    modulesHandler,
		MoviesHandler:     moviesHandler,
		ComplianceHandler: complianceHandler,
		APIKeyMiddleware:  apiKeyMiddleware,
	})

	log.Info("Starting server...", "port", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
