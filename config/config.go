package config

import (
	"fmt"
	"os"

	"backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config carries everything read from the environment at startup.
type Config struct {
	Port      string
	DBHost    string
	DBUser    string
	DBPass    string
	DBName    string
	DBPort    string
	JWTSecret string

	AWSRegion string
	S3Bucket  string

	LabelsPath  string
	CatalogPath string
}

// Load reads .env (if present) and the environment. A missing .env is fine
// in deployed environments where variables come from the platform.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DBHost:      os.Getenv("DB_HOST"),
		DBUser:      os.Getenv("DB_USER"),
		DBPass:      os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBPort:      getenv("DB_PORT", "5432"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AWSRegion:   os.Getenv("AWS_REGION"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		LabelsPath:  getenv("MODEL_LABELS_PATH", "data/labels.txt"),
		CatalogPath: getenv("NUTRIENT_CATALOG_PATH", "data/calorie.json"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenDB connects to postgres and migrates the schema.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.FoodLogEntry{},
		&models.LeaderboardRecord{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
