package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"metroflow-api/config"
	"metroflow-api/handlers"
	"metroflow-api/logger"
	"metroflow-api/middleware"
	"metroflow-api/models"
	"metroflow-api/services"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg.Log)

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql db handle")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	if err := db.AutoMigrate(&models.RidershipRecord{}, &models.Prediction{}, &models.User{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	cache, err := services.NewCacheService(cfg.Redis, log)
	if err != nil {
		// Degraded mode: reads fall through to Postgres, live feed is off.
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	}

	authService := services.NewAuthService(cfg.JWT)
	aiClient := services.NewGatewayClient(cfg.AI, log)
	predictionStore := services.NewGormPredictionStore(db)
	predictionService := services.NewPredictionService(predictionStore, aiClient, cfg.Prediction, log)
	congestionService := services.NewCongestionService(predictionStore, aiClient, log)
	ingestService := services.NewIngestService(services.NewGormRowWriter(db), cfg.Ingest.BatchSize, log)
	networkService := services.NewNetworkService()

	authHandler := handlers.NewAuthHandler(db, authService)
	uploadHandler := handlers.NewUploadHandler(ingestService, cache)
	predictionHandler := handlers.NewPredictionHandler(db, predictionService, cache)
	congestionHandler := handlers.NewCongestionHandler(congestionService)
	ridershipHandler := handlers.NewRidershipHandler(db, cache)
	networkHandler := handlers.NewNetworkHandler(networkService)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "Metro Flow API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		v1.GET("/ridership", ridershipHandler.GetObservations)
		v1.GET("/stations", ridershipHandler.GetStations)
		v1.GET("/predictions", predictionHandler.GetPredictions)
		v1.GET("/lines/status", networkHandler.GetLineStatuses)
		v1.GET("/stations/:id/arrivals", networkHandler.GetStationArrivals)
		v1.GET("/live/ws", handlers.LiveWebSocket(cache, authService, log))

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.POST("/data/upload", uploadHandler.UploadRows)
			protected.POST("/data/upload-csv", uploadHandler.UploadCSV)
			protected.POST("/predictions/flow", predictionHandler.PredictFlow)
			protected.POST("/congestion/analyze", congestionHandler.Analyze)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
