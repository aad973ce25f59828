package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTracker(foodRepo *memFoodLogRepo) (*TrackerService, *memLeaderboardRepo) {
	lbRepo := newMemLeaderboardRepo()
	lb := NewLeaderboardService(lbRepo, foodRepo, nil, zap.NewNop().Sugar())
	return NewTrackerService(foodRepo, lb, zap.NewNop().Sugar()), lbRepo
}

func TestLogFoodStampsAndAssignsIDs(t *testing.T) {
	repo := newMemFoodLogRepo()
	svc, _ := newTestTracker(repo)
	fixed := time.Date(2026, time.March, 10, 14, 30, 45, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	e1, err := svc.LogFood(context.Background(), 1, "asha", "dosa", NutrientFacts{Calories: 168, Protein: 4, Carbs: 29, Fat: 4})
	require.NoError(t, err)
	e2, err := svc.LogFood(context.Background(), 1, "asha", "idli", NutrientFacts{Calories: 58})
	require.NoError(t, err)

	assert.Equal(t, day(2026, time.March, 10), e1.Date)
	assert.Equal(t, "14:30:45", e1.Time)
	assert.Equal(t, "dosa", e1.FoodName)
	assert.Greater(t, e2.ID, e1.ID) // ids are monotonic within the store
}

func TestLogFoodUpdatesLeaderboard(t *testing.T) {
	repo := newMemFoodLogRepo()
	svc, lbRepo := newTestTracker(repo)
	ctx := context.Background()

	// prior balance for the same user
	require.NoError(t, svc.leaderboard.RecordCalories(ctx, 1, "asha", 100, 0))

	for _, c := range []float64{300, 450, 200} {
		_, err := svc.LogFood(ctx, 1, "asha", "meal", NutrientFacts{Calories: c})
		require.NoError(t, err)
	}

	daily, err := NewAggregationService(repo).DailyTotals(ctx, 1, svc.Today())
	require.NoError(t, err)
	assert.Equal(t, 950.0, daily.Calories)

	rec, err := lbRepo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1050), rec.TotalCalories) // prior 100 + 950 logged
}

func TestLogFoodFailedAppendSkipsLeaderboard(t *testing.T) {
	repo := newMemFoodLogRepo()
	repo.failInsert = true
	svc, lbRepo := newTestTracker(repo)
	ctx := context.Background()

	_, err := svc.LogFood(ctx, 1, "asha", "dosa", NutrientFacts{Calories: 168})
	assert.ErrorIs(t, err, ErrPersistence)

	// the leaderboard must not be credited for an unrecorded meal
	rec, err := lbRepo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestEntriesForInsertionOrder(t *testing.T) {
	repo := newMemFoodLogRepo()
	svc, _ := newTestTracker(repo)
	ctx := context.Background()

	names := []string{"poha", "dosa", "samosa"}
	for _, n := range names {
		_, err := svc.LogFood(ctx, 1, "asha", n, NutrientFacts{Calories: 100})
		require.NoError(t, err)
	}

	entries, err := svc.EntriesFor(ctx, 1, svc.Today())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, n := range names {
		assert.Equal(t, n, entries[i].FoodName)
	}
}
