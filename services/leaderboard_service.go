package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"backend/models"

	"go.uber.org/zap"
)

// LeaderboardService maintains per-user cumulative calorie totals. It is the
// only writer of leaderboard records. The read-modify-write in RecordCalories
// runs under a per-user lock so concurrent submissions for the same user
// cannot lose updates; Resync takes the whole board exclusively.
type LeaderboardService struct {
	repo     LeaderboardRepository
	foodRepo FoodLogRepository
	hub      *RealtimeHub
	log      *zap.SugaredLogger

	mu        sync.RWMutex // held shared by updates, exclusively by resync
	userMu    sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewLeaderboardService(repo LeaderboardRepository, foodRepo FoodLogRepository, hub *RealtimeHub, log *zap.SugaredLogger) *LeaderboardService {
	return &LeaderboardService{
		repo:      repo,
		foodRepo:  foodRepo,
		hub:       hub,
		log:       log,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *LeaderboardService) lockFor(userID uint) *sync.Mutex {
	s.userMu.Lock()
	defer s.userMu.Unlock()
	m, ok := s.userLocks[userID]
	if !ok {
		m = &sync.Mutex{}
		s.userLocks[userID] = m
	}
	return m
}

// RecordCalories upserts the user's running total. A new record starts at
// max(0, round(delta)) with streak 0; an existing one is incremented by
// round(delta). entryID is the food log entry being credited: an id at or
// below the last applied one means a retried update and is skipped, so the
// same entry is never counted twice. Pass 0 for deltas with no backing entry.
func (s *LeaderboardService) RecordCalories(ctx context.Context, userID uint, username string, delta float64, entryID uint) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: leaderboard read: %v", ErrPersistence, err)
	}

	rounded := int64(math.Round(delta))
	if rec == nil {
		total := rounded
		if total < 0 {
			total = 0
		}
		rec = &models.LeaderboardRecord{
			UserID:        userID,
			Username:      username,
			TotalCalories: total,
			Streak:        0,
			LastEntryID:   entryID,
		}
	} else {
		if entryID != 0 && entryID <= rec.LastEntryID {
			s.log.Debugw("skipping already applied leaderboard update",
				"user_id", userID, "entry_id", entryID)
			return nil
		}
		rec.TotalCalories += rounded
		rec.Username = username
		if entryID > rec.LastEntryID {
			rec.LastEntryID = entryID
		}
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("%w: leaderboard write: %v", ErrPersistence, err)
	}

	if s.hub != nil {
		s.hub.Broadcast(map[string]any{
			"username":       rec.Username,
			"total_calories": rec.TotalCalories,
		})
	}
	return nil
}

// TopN returns the n highest positive totals, descending, ties broken by
// user id. Records at or below zero are excluded but not deleted.
func (s *LeaderboardService) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	rows, err := s.repo.TopByTotal(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard read: %v", ErrPersistence, err)
	}
	out := make([]models.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		out = append(out, models.LeaderboardEntry{
			Rank:          i + 1,
			Username:      r.Username,
			TotalCalories: r.TotalCalories,
		})
	}
	return out, nil
}

// Resync recomputes every user's total from scratch out of the food log and
// replaces the leaderboard wholesale. This is the authoritative repair path
// when the running totals have drifted. Users whose computed total rounds to
// zero or below are left off the board.
func (s *LeaderboardService) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums, err := s.foodRepo.SumCaloriesByUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: resync rollup: %v", ErrPersistence, err)
	}

	recs := make([]models.LeaderboardRecord, 0, len(sums))
	for _, u := range sums {
		total := int64(math.Round(u.Calories))
		if total <= 0 {
			continue
		}
		recs = append(recs, models.LeaderboardRecord{
			UserID:        u.UserID,
			Username:      u.Username,
			TotalCalories: total,
			Streak:        0,
			LastEntryID:   u.MaxEntryID,
		})
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: resync clear: %v", ErrPersistence, err)
	}
	if err := s.repo.BulkInsert(ctx, recs); err != nil {
		return fmt.Errorf("%w: resync insert: %v", ErrPersistence, err)
	}

	s.log.Infow("leaderboard resynced", "users", len(recs))
	return nil
}
