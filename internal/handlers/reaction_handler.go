package handlers

import (
	"net/http"
	"strconv"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles reactions on posts and comments
type ReactionHandler struct {
	reactionService *services.ReactionService
	userRepository  repositories.UserRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactions *services.ReactionService, userRepo repositories.UserRepository) *ReactionHandler {
	return &ReactionHandler{reactionService: reactions, userRepository: userRepo}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/reactions", h.ReactToPost)
	g.DELETE("/posts/:id/reactions", h.UnreactToPost)
	g.POST("/comments/:id/reactions", h.ReactToComment)
	g.DELETE("/comments/:id/reactions", h.UnreactToComment)
}

// ReactToPost sets the caller's reaction on a post
func (h *ReactionHandler) ReactToPost(c echo.Context) error {
	return h.react(c, c.Param("id"), models.ReactionTargetPost)
}

// UnreactToPost removes the caller's reaction from a post
func (h *ReactionHandler) UnreactToPost(c echo.Context) error {
	return h.unreact(c, c.Param("id"), models.ReactionTargetPost)
}

// ReactToComment sets the caller's reaction on a comment
func (h *ReactionHandler) ReactToComment(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	return h.react(c, strconv.FormatUint(uint64(id), 10), models.ReactionTargetComment)
}

// UnreactToComment removes the caller's reaction from a comment
func (h *ReactionHandler) UnreactToComment(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	return h.unreact(c, strconv.FormatUint(uint64(id), 10), models.ReactionTargetComment)
}

func (h *ReactionHandler) react(c echo.Context, targetID, targetType string) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.ReactRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.reactionService.React(c.Request().Context(), user.ID, targetID, targetType, req.Type)
	if err != nil {
		if err == services.ErrReactionTargetNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"outcome": outcome}})
}

func (h *ReactionHandler) unreact(c echo.Context, targetID, targetType string) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	if err := h.reactionService.RemoveReaction(c.Request().Context(), user.ID, targetID, targetType); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"removed": true}})
}
