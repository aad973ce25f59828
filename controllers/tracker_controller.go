package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type TrackerController struct {
	Tracker    *services.TrackerService
	Aggregates *services.AggregationService
}

func NewTrackerController(tracker *services.TrackerService, agg *services.AggregationService) *TrackerController {
	return &TrackerController{Tracker: tracker, Aggregates: agg}
}

type addFoodInput struct {
	FoodName string  `json:"food_name" binding:"required"`
	Calories float64 `json:"calories" binding:"gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
}

// AddFood records a confirmed meal. On success the entry has been durably
// appended; the response says so explicitly so a logged meal is never
// silently dropped.
func (h *TrackerController) AddFood(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input addFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Tracker.LogFood(c.Request.Context(), userID, usernameFromCtx(c), input.FoodName, services.NutrientFacts{
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meal could not be recorded"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetTracker serves the dashboard: today's meals plus the daily, weekly,
// monthly and average aggregates, all recomputed from raw entries.
func (h *TrackerController) GetTracker(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx := c.Request.Context()
	today := h.Tracker.Today()

	meals, err := h.Tracker.EntriesFor(ctx, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	daily, err := h.Aggregates.DailyTotals(ctx, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	week, err := h.Aggregates.WeekTotal(ctx, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	month, err := h.Aggregates.MonthTotal(ctx, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	avg, err := h.Aggregates.AverageDailyCalories(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           today.Format("2006-01-02"),
		"meals":          meals,
		"today_totals":   daily,
		"week_calories":  week,
		"month_calories": month,
		"avg_calories":   avg,
	})
}

// GetSeries serves the date -> calories chart data, ascending.
func (h *TrackerController) GetSeries(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	series, err := h.Aggregates.Series(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(series))
	for _, p := range series {
		out = append(out, gin.H{
			"date":           p.Date.Format("2006-01-02"),
			"total_calories": p.Calories,
		})
	}
	c.JSON(http.StatusOK, out)
}
