package main

import (
	"context"
	"log"

	"backend/config"
	"backend/controllers"
	"backend/routes"
	"backend/services"
	"backend/utils"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatalw("database init failed", "error", err)
	}

	vocab, err := services.LoadVocabulary(cfg.LabelsPath)
	if err != nil {
		logger.Fatalw("label vocabulary load failed", "path", cfg.LabelsPath, "error", err)
	}
	catalog := services.LoadCatalog(cfg.CatalogPath, logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatalw("aws config load failed", "error", err)
	}
	model := services.NewRekognitionModel(rekognition.NewFromConfig(awsCfg), vocab)
	uploader := utils.NewPhotoUploader(s3.NewFromConfig(awsCfg), cfg.S3Bucket)

	hub := services.NewRealtimeHub()
	foodRepo := services.NewGormFoodLogRepository(db)
	lbRepo := services.NewGormLeaderboardRepository(db)

	classifier := services.NewClassifierService(model, vocab, logger)
	nutrients := services.NewNutrientService(catalog, logger)
	leaderboard := services.NewLeaderboardService(lbRepo, foodRepo, hub, logger)
	tracker := services.NewTrackerService(foodRepo, leaderboard, logger)
	aggregates := services.NewAggregationService(foodRepo)
	auth := services.NewAuthService(db, cfg.JWTSecret)

	r := routes.SetupRouter(cfg.JWTSecret, routes.Controllers{
		Auth:        controllers.NewAuthController(auth),
		Predict:     controllers.NewPredictController(classifier, nutrients, uploader, logger),
		Tracker:     controllers.NewTrackerController(tracker, aggregates),
		Leaderboard: controllers.NewLeaderboardController(leaderboard, hub, logger),
	})

	logger.Infow("starting server", "port", cfg.Port, "labels", vocab.Len(), "foods", len(catalog))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
