package handlers

import (
	"net/http"
	"time"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// StoryLifetime is how long a story stays visible before the expiry
// sweep removes it.
const StoryLifetime = 24 * time.Hour

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository) *StoryHandler {
	return &StoryHandler{storyRepository: storyRepo, userRepository: userRepo}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetActiveStories)
	g.POST("/stories/:id/view", h.MarkViewed)
}

// CreateStory creates a story that expires after StoryLifetime
func (h *StoryHandler) CreateStory(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreateStoryRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	story := &models.Story{
		UserID:    user.ID,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		ExpiresAt: time.Now().Add(StoryLifetime),
	}
	if err := h.storyRepository.CreateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": story})
}

// GetActiveStories lists stories that have not expired yet
func (h *StoryHandler) GetActiveStories(c echo.Context) error {
	stories, err := h.storyRepository.GetActiveStories(time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": stories}})
}

// MarkViewed records that the caller has seen a story. Repeat views are
// acknowledged without writing a second row.
func (h *StoryHandler) MarkViewed(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.storyRepository.GetStoryByID(storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	viewed, err := h.storyRepository.HasViewed(storyID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !viewed {
		view := &models.StoryView{StoryID: storyID, UserID: user.ID, SeenAt: time.Now()}
		if err := h.storyRepository.CreateView(view); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"viewed": true}})
}
