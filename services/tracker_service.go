package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/models"

	"go.uber.org/zap"
)

// ErrPersistence means a durable read or write did not complete. Surfaced to
// the caller without retry; retry policy belongs to the storage layer.
var ErrPersistence = errors.New("persistence failed")

// TrackerService owns the append-only food log. It stamps entries with the
// server clock (UTC) and drives the two-step write: the log append comes
// first, the leaderboard update runs only after the append succeeded.
type TrackerService struct {
	repo        FoodLogRepository
	leaderboard *LeaderboardService
	now         func() time.Time
	log         *zap.SugaredLogger
}

func NewTrackerService(repo FoodLogRepository, lb *LeaderboardService, log *zap.SugaredLogger) *TrackerService {
	return &TrackerService{
		repo:        repo,
		leaderboard: lb,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// DayOf truncates a timestamp to its UTC calendar date.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LogFood appends an entry and then credits the calories to the leaderboard.
// A failed append returns before the leaderboard is touched, so the two
// stores cannot diverge in the entry's favor. The entry id rides along as an
// idempotency guard for the leaderboard update.
func (s *TrackerService) LogFood(ctx context.Context, userID uint, username, foodName string, facts NutrientFacts) (*models.FoodLogEntry, error) {
	now := s.now()
	entry := &models.FoodLogEntry{
		UserID:   userID,
		FoodName: foodName,
		Calories: facts.Calories,
		Protein:  facts.Protein,
		Carbs:    facts.Carbs,
		Fat:      facts.Fat,
		Date:     DayOf(now),
		Time:     now.Format("15:04:05"),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: append food log: %v", ErrPersistence, err)
	}

	if err := s.leaderboard.RecordCalories(ctx, userID, username, facts.Calories, entry.ID); err != nil {
		// The meal is recorded; the running total can be repaired by resync.
		s.log.Errorw("leaderboard update failed after food log append",
			"user_id", userID, "entry_id", entry.ID, "error", err)
	}
	return entry, nil
}

// EntriesFor lists a user's entries for one date in insertion order.
func (s *TrackerService) EntriesFor(ctx context.Context, userID uint, date time.Time) ([]models.FoodLogEntry, error) {
	rows, err := s.repo.SelectByUserAndDate(ctx, userID, DayOf(date))
	if err != nil {
		return nil, fmt.Errorf("%w: select food log: %v", ErrPersistence, err)
	}
	return rows, nil
}

// Today returns the current UTC calendar date.
func (s *TrackerService) Today() time.Time { return DayOf(s.now()) }
