package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"backend/models"
)

// In-memory repository fakes used across the service tests.

type memFoodLogRepo struct {
	mu         sync.Mutex
	nextID     uint
	entries    []models.FoodLogEntry
	usernames  map[uint]string
	failInsert bool
}

func newMemFoodLogRepo() *memFoodLogRepo {
	return &memFoodLogRepo{usernames: make(map[uint]string)}
}

func (r *memFoodLogRepo) Insert(_ context.Context, e *models.FoodLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errors.New("insert refused")
	}
	r.nextID++
	e.ID = r.nextID
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memFoodLogRepo) SelectByUserAndDate(_ context.Context, userID uint, date time.Time) ([]models.FoodLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FoodLogEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memFoodLogRepo) SumByUserAndDateRange(_ context.Context, userID uint, from, to time.Time) (models.NutrientTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t models.NutrientTotals
	for _, e := range r.entries {
		if e.UserID != userID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fat += e.Fat
	}
	return t, nil
}

func (r *memFoodLogRepo) SumByUserGroupedByDate(_ context.Context, userID uint) ([]models.DateCalories, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := make(map[time.Time]float64)
	for _, e := range r.entries {
		if e.UserID == userID {
			sums[e.Date] += e.Calories
		}
	}
	out := make([]models.DateCalories, 0, len(sums))
	for d, c := range sums {
		out = append(out, models.DateCalories{Date: d, Calories: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memFoodLogRepo) SumCaloriesByUser(_ context.Context) ([]models.UserCalories, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := make(map[uint]*models.UserCalories)
	for _, e := range r.entries {
		uc, ok := sums[e.UserID]
		if !ok {
			uc = &models.UserCalories{UserID: e.UserID, Username: r.usernames[e.UserID]}
			sums[e.UserID] = uc
		}
		uc.Calories += e.Calories
		if e.ID > uc.MaxEntryID {
			uc.MaxEntryID = e.ID
		}
	}
	out := make([]models.UserCalories, 0, len(sums))
	for _, uc := range sums {
		out = append(out, *uc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type memLeaderboardRepo struct {
	mu     sync.Mutex
	nextID uint
	byUser map[uint]models.LeaderboardRecord
}

func newMemLeaderboardRepo() *memLeaderboardRepo {
	return &memLeaderboardRepo{byUser: make(map[uint]models.LeaderboardRecord)}
}

func (r *memLeaderboardRepo) Get(_ context.Context, userID uint) (*models.LeaderboardRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (r *memLeaderboardRepo) Save(_ context.Context, rec *models.LeaderboardRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == 0 {
		r.nextID++
		rec.ID = r.nextID
	}
	r.byUser[rec.UserID] = *rec
	return nil
}

func (r *memLeaderboardRepo) TopByTotal(_ context.Context, n int) ([]models.LeaderboardRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LeaderboardRecord
	for _, rec := range r.byUser {
		if rec.TotalCalories > 0 {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCalories != out[j].TotalCalories {
			return out[i].TotalCalories > out[j].TotalCalories
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *memLeaderboardRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser = make(map[uint]models.LeaderboardRecord)
	return nil
}

func (r *memLeaderboardRepo) BulkInsert(_ context.Context, recs []models.LeaderboardRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.nextID++
		rec.ID = r.nextID
		r.byUser[rec.UserID] = rec
	}
	return nil
}
