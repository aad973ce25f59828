package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLeaderboard(foodRepo *memFoodLogRepo) (*LeaderboardService, *memLeaderboardRepo) {
	repo := newMemLeaderboardRepo()
	if foodRepo == nil {
		foodRepo = newMemFoodLogRepo()
	}
	return NewLeaderboardService(repo, foodRepo, nil, zap.NewNop().Sugar()), repo
}

func TestRecordCaloriesCreatesRecord(t *testing.T) {
	svc, repo := newTestLeaderboard(nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 450.4, 1))

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(450), rec.TotalCalories)
	assert.Equal(t, 0, rec.Streak)
	assert.Equal(t, "asha", rec.Username)
}

func TestRecordCaloriesNegativeDeltaClampsNewRecord(t *testing.T) {
	svc, repo := newTestLeaderboard(nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", -120, 1))

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(0), rec.TotalCalories)
}

func TestRecordCaloriesIncrementsExisting(t *testing.T) {
	svc, repo := newTestLeaderboard(nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 300, 1))
	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 450, 2))
	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 200, 3))

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(950), rec.TotalCalories)
}

func TestRecordCaloriesSkipsReplayedEntry(t *testing.T) {
	svc, repo := newTestLeaderboard(nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 300, 7))
	// a retried update for the same entry must not double count
	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 300, 7))

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(300), rec.TotalCalories)
}

func TestTopNExcludesNonPositiveAndRanks(t *testing.T) {
	svc, _ := newTestLeaderboard(nil)
	ctx := context.Background()

	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 900, 0))
	require.NoError(t, svc.RecordCalories(ctx, 2, "bheem", 1200, 0))
	require.NoError(t, svc.RecordCalories(ctx, 3, "chitra", 0, 0))
	require.NoError(t, svc.RecordCalories(ctx, 4, "dev", -50, 0))

	top, err := svc.TopN(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bheem", top[0].Username)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, int64(1200), top[0].TotalCalories)
	assert.Equal(t, "asha", top[1].Username)
	assert.Equal(t, 2, top[1].Rank)
}

func TestTopNLimit(t *testing.T) {
	svc, _ := newTestLeaderboard(nil)
	ctx := context.Background()

	for i := uint(1); i <= 15; i++ {
		require.NoError(t, svc.RecordCalories(ctx, i, "user", float64(i*100), 0))
	}

	top, err := svc.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, top, 10)
	assert.Equal(t, int64(1500), top[0].TotalCalories)
}

func TestConcurrentRecordCaloriesLosesNoUpdates(t *testing.T) {
	svc, repo := newTestLeaderboard(nil)
	ctx := context.Background()

	const workers = 50
	const delta = 10.0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordCalories(ctx, 1, "asha", delta, 0))
		}()
	}
	wg.Wait()

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*delta), rec.TotalCalories)
}

func TestResyncRebuildsTotalsFromFoodLog(t *testing.T) {
	foodRepo := newMemFoodLogRepo()
	foodRepo.usernames[1] = "asha"
	foodRepo.usernames[2] = "bheem"
	svc, repo := newTestLeaderboard(foodRepo)
	ctx := context.Background()
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	for _, c := range []float64{300, 450, 200} {
		require.NoError(t, foodRepo.Insert(ctx, &models.FoodLogEntry{UserID: 1, FoodName: "f", Calories: c, Date: d}))
	}
	require.NoError(t, foodRepo.Insert(ctx, &models.FoodLogEntry{UserID: 2, FoodName: "f", Calories: 0, Date: d}))

	// drifted state that resync must replace wholesale
	require.NoError(t, repo.Save(ctx, &models.LeaderboardRecord{UserID: 1, Username: "asha", TotalCalories: 12345}))
	require.NoError(t, repo.Save(ctx, &models.LeaderboardRecord{UserID: 9, Username: "ghost", TotalCalories: 500}))

	require.NoError(t, svc.Resync(ctx))

	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(950), rec.TotalCalories)
	assert.Equal(t, 0, rec.Streak)

	// zero-total user is off the board, stale user is gone
	rec2, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, rec2)
	ghost, err := repo.Get(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, ghost)
}

func TestResyncSetsIdempotencyWatermark(t *testing.T) {
	foodRepo := newMemFoodLogRepo()
	foodRepo.usernames[1] = "asha"
	svc, repo := newTestLeaderboard(foodRepo)
	ctx := context.Background()
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	e := &models.FoodLogEntry{UserID: 1, FoodName: "f", Calories: 400, Date: d}
	require.NoError(t, foodRepo.Insert(ctx, e))
	require.NoError(t, svc.Resync(ctx))

	// replaying the already counted entry after resync is a no-op
	require.NoError(t, svc.RecordCalories(ctx, 1, "asha", 400, e.ID))
	rec, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), rec.TotalCalories)
}
