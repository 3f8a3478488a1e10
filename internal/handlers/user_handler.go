package handlers

import (
	"context"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	cleanupService *services.CleanupService
	sched          *scheduler.Scheduler
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, cleanup *services.CleanupService, sched *scheduler.Scheduler) *UserHandler {
	return &UserHandler{userRepository: userRepo, cleanupService: cleanup, sched: sched}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMyProfile)
	g.PUT("/users/me", h.UpdateMyProfile)
	g.POST("/users/me/onboarding", h.CompleteOnboarding)
	g.DELETE("/users/me", h.DeleteMyAccount)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUserByID)
}

// GetMyProfile returns the authenticated user's profile
func (h *UserHandler) GetMyProfile(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// UpdateMyProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateMyProfile(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.GraduationYear != 0 {
		user.GraduationYear = req.GraduationYear
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// CompleteOnboarding marks the authenticated user's onboarding as done
func (h *UserHandler) CompleteOnboarding(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.userRepository.SetOnboardingComplete(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"onboarding_complete": true}})
}

// DeleteMyAccount schedules the account cascade and returns immediately.
// Dependent records disappear asynchronously.
func (h *UserHandler) DeleteMyAccount(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	userID := user.ID
	h.sched.RunAfter(0, "cleanup.delete_account", func(ctx context.Context) error {
		return h.cleanupService.DeleteAccount(ctx, userID)
	})

	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"deleting": true}})
}

// SearchUsers searches users by name or username
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}

// GetUserByID returns a public profile
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}
