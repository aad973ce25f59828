package controllers

import (
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type LeaderboardController struct {
	Svc *services.LeaderboardService
	Hub *services.RealtimeHub
	Log *zap.SugaredLogger
}

func NewLeaderboardController(svc *services.LeaderboardService, hub *services.RealtimeHub, log *zap.SugaredLogger) *LeaderboardController {
	return &LeaderboardController{Svc: svc, Hub: hub, Log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *LeaderboardController) GetLeaderboard(c *gin.Context) {
	n := 10
	if v := c.Query("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	top, err := h.Svc.TopN(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_users": top})
}

// Resync rebuilds every leaderboard total from the food log. One-time repair
// path for drifted running totals.
func (h *LeaderboardController) Resync(c *gin.Context) {
	if err := h.Svc.Resync(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "leaderboard synced successfully"})
}

// Stream upgrades to a websocket and pushes leaderboard changes as they
// happen.
func (h *LeaderboardController) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &services.WSClient{Conn: conn}
	h.Hub.Register(client)
	defer h.Hub.Unregister(client)

	// Drain control frames until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
