package services

import (
	"context"
	"fmt"
	"time"

	"backend/models"
)

// AggregationService computes intake statistics from raw food log entries.
// All reads are pure: every number is recomputed from the store on demand, so
// there is no counter that can drift. Empty windows collapse to zero.
type AggregationService struct {
	repo FoodLogRepository
}

func NewAggregationService(repo FoodLogRepository) *AggregationService {
	return &AggregationService{repo: repo}
}

// DailyTotals sums all four macros over a user's entries for one date.
func (s *AggregationService) DailyTotals(ctx context.Context, userID uint, today time.Time) (models.NutrientTotals, error) {
	d := DayOf(today)
	t, err := s.repo.SumByUserAndDateRange(ctx, userID, d, d)
	if err != nil {
		return models.NutrientTotals{}, fmt.Errorf("%w: daily totals: %v", ErrPersistence, err)
	}
	return t, nil
}

// WeekTotal sums calories over the trailing 7 calendar days ending today,
// inclusive.
func (s *AggregationService) WeekTotal(ctx context.Context, userID uint, today time.Time) (float64, error) {
	to := DayOf(today)
	from := to.AddDate(0, 0, -6)
	t, err := s.repo.SumByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: week total: %v", ErrPersistence, err)
	}
	return t.Calories, nil
}

// MonthTotal sums calories over the calendar month containing today. This is
// a calendar window, not a rolling one.
func (s *AggregationService) MonthTotal(ctx context.Context, userID uint, today time.Time) (float64, error) {
	d := DayOf(today)
	from := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	t, err := s.repo.SumByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: month total: %v", ErrPersistence, err)
	}
	return t.Calories, nil
}

// AverageDailyCalories is the mean of per-date calorie sums over every
// distinct date the user has entries. Zero when the user has none.
func (s *AggregationService) AverageDailyCalories(ctx context.Context, userID uint) (float64, error) {
	rows, err := s.repo.SumByUserGroupedByDate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: average daily calories: %v", ErrPersistence, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range rows {
		sum += r.Calories
	}
	return round2(sum / float64(len(rows))), nil
}

// Series maps every distinct date with entries to that date's calorie total,
// ordered by date ascending.
func (s *AggregationService) Series(ctx context.Context, userID uint) ([]models.DateCalories, error) {
	rows, err := s.repo.SumByUserGroupedByDate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: calorie series: %v", ErrPersistence, err)
	}
	return rows, nil
}
