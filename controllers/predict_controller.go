package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictController struct {
	Classifier *services.ClassifierService
	Nutrients  *services.NutrientService
	Uploader   *utils.PhotoUploader
	Log        *zap.SugaredLogger
}

func NewPredictController(cls *services.ClassifierService, nut *services.NutrientService, up *utils.PhotoUploader, log *zap.SugaredLogger) *PredictController {
	return &PredictController{Classifier: cls, Nutrients: nut, Uploader: up, Log: log}
}

type predictResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Source     string  `json:"source"`
	Tip        string  `json:"tip"`
	ImageURL   string  `json:"image_url,omitempty"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
}

// Predict classifies an uploaded meal photo and attaches the resolved
// nutrient facts. Nothing is logged to the tracker here; the client confirms
// the meal separately via the tracker endpoint.
func (h *PredictController) Predict(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read the photo"})
		return
	}
	defer f.Close()
	imageBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read the photo"})
		return
	}

	result, err := h.Classifier.Classify(c.Request.Context(), imageBytes)
	if err != nil {
		if errors.Is(err, services.ErrDecode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read the photo"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not classify the photo"})
		return
	}

	facts, source := h.Nutrients.Resolve(result.Label)

	// Photo storage is best effort; a failed upload does not fail the
	// prediction.
	var imageURL string
	if h.Uploader != nil {
		contentType := fileHeader.Header.Get("Content-Type")
		if url, err := h.Uploader.UploadMealPhoto(c.Request.Context(), userID, imageBytes, contentType); err == nil {
			imageURL = url
		} else {
			h.Log.Warnw("meal photo upload failed", "user_id", userID, "error", err)
		}
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, predictResponse{
		Prediction: result.Label,
		Confidence: result.Confidence,
		Calories:   facts.Calories,
		Protein:    facts.Protein,
		Carbs:      facts.Carbs,
		Fat:        facts.Fat,
		Source:     source,
		Tip:        h.Nutrients.HealthTip(result.Label),
		ImageURL:   imageURL,
		Date:       now.Format("2006-01-02"),
		Time:       now.Format("15:04:05"),
	})
}
