package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// FoodLogRepository is the persistence surface the food log and aggregation
// services need. The core is agnostic to the storage technology behind it.
type FoodLogRepository interface {
	Insert(ctx context.Context, e *models.FoodLogEntry) error
	SelectByUserAndDate(ctx context.Context, userID uint, date time.Time) ([]models.FoodLogEntry, error)
	SumByUserAndDateRange(ctx context.Context, userID uint, from, to time.Time) (models.NutrientTotals, error)
	SumByUserGroupedByDate(ctx context.Context, userID uint) ([]models.DateCalories, error)
	SumCaloriesByUser(ctx context.Context) ([]models.UserCalories, error)
}

// LeaderboardRepository is the persistence surface of the leaderboard.
// DeleteAll and BulkInsert exist only for the resync path.
type LeaderboardRepository interface {
	Get(ctx context.Context, userID uint) (*models.LeaderboardRecord, error) // nil when absent
	Save(ctx context.Context, rec *models.LeaderboardRecord) error
	TopByTotal(ctx context.Context, n int) ([]models.LeaderboardRecord, error)
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, recs []models.LeaderboardRecord) error
}

type gormFoodLogRepository struct{ db *gorm.DB }

func NewGormFoodLogRepository(db *gorm.DB) FoodLogRepository {
	return &gormFoodLogRepository{db: db}
}

func (r *gormFoodLogRepository) Insert(ctx context.Context, e *models.FoodLogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *gormFoodLogRepository) SelectByUserAndDate(ctx context.Context, userID uint, date time.Time) ([]models.FoodLogEntry, error) {
	var rows []models.FoodLogEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *gormFoodLogRepository) SumByUserAndDateRange(ctx context.Context, userID uint, from, to time.Time) (models.NutrientTotals, error) {
	var t models.NutrientTotals
	err := r.db.WithContext(ctx).
		Model(&models.FoodLogEntry{}).
		Select("COALESCE(SUM(calories),0) AS calories, COALESCE(SUM(protein),0) AS protein, COALESCE(SUM(carbs),0) AS carbs, COALESCE(SUM(fat),0) AS fat").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Scan(&t).Error
	return t, err
}

func (r *gormFoodLogRepository) SumByUserGroupedByDate(ctx context.Context, userID uint) ([]models.DateCalories, error) {
	var rows []models.DateCalories
	err := r.db.WithContext(ctx).
		Model(&models.FoodLogEntry{}).
		Select("date, SUM(calories) AS calories").
		Where("user_id = ?", userID).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gormFoodLogRepository) SumCaloriesByUser(ctx context.Context) ([]models.UserCalories, error) {
	var rows []models.UserCalories
	err := r.db.WithContext(ctx).
		Model(&models.FoodLogEntry{}).
		Select("food_log_entries.user_id AS user_id, users.username AS username, SUM(food_log_entries.calories) AS calories, MAX(food_log_entries.id) AS max_entry_id").
		Joins("JOIN users ON users.id = food_log_entries.user_id").
		Group("food_log_entries.user_id, users.username").
		Scan(&rows).Error
	return rows, err
}

type gormLeaderboardRepository struct{ db *gorm.DB }

func NewGormLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &gormLeaderboardRepository{db: db}
}

func (r *gormLeaderboardRepository) Get(ctx context.Context, userID uint) (*models.LeaderboardRecord, error) {
	var rec models.LeaderboardRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormLeaderboardRepository) Save(ctx context.Context, rec *models.LeaderboardRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *gormLeaderboardRepository) TopByTotal(ctx context.Context, n int) ([]models.LeaderboardRecord, error) {
	var rows []models.LeaderboardRecord
	err := r.db.WithContext(ctx).
		Where("total_calories > 0").
		Order("total_calories DESC, user_id ASC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

func (r *gormLeaderboardRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.LeaderboardRecord{}).Error
}

func (r *gormLeaderboardRepository) BulkInsert(ctx context.Context, recs []models.LeaderboardRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&recs).Error
}
