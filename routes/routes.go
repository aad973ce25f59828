package routes

import (
	"backend/controllers"
	"backend/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth        *controllers.AuthController
	Predict     *controllers.PredictController
	Tracker     *controllers.TrackerController
	Leaderboard *controllers.LeaderboardController
}

func SetupRouter(jwtSecret string, c Controllers) *gin.Engine {
	r := gin.Default()

	auth := r.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		api.POST("/predict", c.Predict.Predict)

		api.POST("/tracker/food", c.Tracker.AddFood)
		api.GET("/tracker", c.Tracker.GetTracker)
		api.GET("/tracker/series", c.Tracker.GetSeries)

		api.GET("/leaderboard", c.Leaderboard.GetLeaderboard)
		api.POST("/leaderboard/resync", c.Leaderboard.Resync)
		api.GET("/ws/leaderboard", c.Leaderboard.Stream)
	}

	return r
}
