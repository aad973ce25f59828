package models

import "time"

// FoodLogEntry is one logged meal. Rows are append-only: the store assigns
// the id on insert and nothing updates or deletes them afterwards.
type FoodLogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	FoodName  string    `gorm:"not null" json:"food_name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Date      time.Time `gorm:"index;not null" json:"date"` // UTC midnight
	Time      string    `gorm:"size:8" json:"time"`         // HH:MM:SS
	CreatedAt time.Time `json:"-"`
}

// NutrientTotals is a summed nutrient view over a set of entries.
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DateCalories is one point of the date -> calories series.
type DateCalories struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
}

// UserCalories is a per-user calorie rollup used by the leaderboard resync.
type UserCalories struct {
	UserID     uint
	Username   string
	Calories   float64
	MaxEntryID uint
}
