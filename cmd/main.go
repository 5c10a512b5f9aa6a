package main

import (
	"fmt"
	"os"
	"time"

	redisclient "github.com/skindiary/careplan-backend/internal/clients/redis"
	"github.com/skindiary/careplan-backend/internal/clients/scoring"
	"github.com/skindiary/careplan-backend/internal/db"
	"github.com/skindiary/careplan-backend/internal/handlers"
	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/middleware"
	"github.com/skindiary/careplan-backend/internal/repos"
	"github.com/skindiary/careplan-backend/internal/server"
	"github.com/skindiary/careplan-backend/internal/services"
	"github.com/skindiary/careplan-backend/internal/utils"
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
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
	substitutionWindowDays := utils.GetEnvAsInt("PROFILE_SUBSTITUTION_WINDOW_DAYS", 7, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	skinProfileRepo := repos.NewSkinProfileRepo(thePG, log)
	answerRepo := repos.NewQuestionnaireAnswerRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)

	// Plan cache
	log.Info("Setting up plan cache now...")
	planCache, err := redisclient.NewPlanCache(log)
	if err != nil {
		log.Warn("Could not init PlanCache, plans will be regenerated per request", "error", err)
		planCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	scoringClient := scoring.NewClient(log)
	planService := services.NewPlanService(
		thePG,
		log,
		skinProfileRepo,
		answerRepo,
		productRepo,
		planCache,
		scoringClient,
		time.Duration(substitutionWindowDays)*24*time.Hour,
	)

	// Handlers
	planHandler := handlers.NewPlanHandler(planService)
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		PlanHandler:    planHandler,
		AuthMiddleware: authMiddleware,
	})

	log.Info("Starting server", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
