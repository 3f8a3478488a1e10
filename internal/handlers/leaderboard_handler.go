package handlers

import (
	"net/http"
	"strconv"

	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LeaderboardHandler serves the reputation leaderboard
type LeaderboardHandler struct {
	reputation *services.ReputationService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(reputation *services.ReputationService) *LeaderboardHandler {
	return &LeaderboardHandler{reputation: reputation}
}

// RegisterLeaderboardRoutes registers leaderboard routes
func (h *LeaderboardHandler) RegisterLeaderboardRoutes(g *echo.Group) {
	g.GET("/leaderboard", h.GetLeaderboard)
}

// GetLeaderboard returns the top users by reputation
func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	limit := 10
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	entries, err := h.reputation.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"leaderboard": entries}})
}
