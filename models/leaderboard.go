package models

import "time"

// LeaderboardRecord holds a user's cumulative logged calories. One row per
// user; only the leaderboard service writes it. Streak is reserved state,
// created as 0 and never advanced. LastEntryID is the highest food log entry
// id applied to the total and guards retried updates against double counting.
type LeaderboardRecord struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"uniqueIndex;not null"`
	Username      string `gorm:"not null"`
	TotalCalories int64  `gorm:"not null;default:0"`
	Streak        int    `gorm:"not null;default:0"`
	LastEntryID   uint   `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeaderboardEntry is one ranked row served to clients.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Username      string `json:"username"`
	TotalCalories int64  `json:"total_calories"`
}
