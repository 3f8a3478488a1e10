package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PollHandler handles poll HTTP requests
type PollHandler struct {
	pollRepository repositories.PollRepository
	userRepository repositories.UserRepository
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(pollRepo repositories.PollRepository, userRepo repositories.UserRepository) *PollHandler {
	return &PollHandler{pollRepository: pollRepo, userRepository: userRepo}
}

// RegisterPollRoutes registers poll-related routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/polls", h.CreatePoll)
	g.GET("/polls", h.GetPolls)
	g.GET("/polls/:id", h.GetPoll)
	g.POST("/polls/:id/vote", h.Vote)
}

// CreatePoll creates a poll. Options are stored as a JSON array.
func (h *PollHandler) CreatePoll(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreatePollRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid options")
	}

	poll := &models.Poll{
		AuthorID: user.ID,
		Question: req.Question,
		Options:  string(options),
		ClosesAt: req.ClosesAt,
	}
	if err := h.pollRepository.CreatePoll(poll); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": poll})
}

// GetPolls lists polls, newest first
func (h *PollHandler) GetPolls(c echo.Context) error {
	page, limit := paginationParams(c, 20)
	polls, total, err := h.pollRepository.GetPolls(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"polls": polls},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetPoll retrieves a poll with its per-option tallies
func (h *PollHandler) GetPoll(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	poll, err := h.pollRepository.GetPollByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	tallies, err := h.pollRepository.CountVotesByOption(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"poll": poll, "tallies": tallies},
	})
}

// Vote records the caller's vote. One vote per user per poll; voting
// after the close time is rejected.
func (h *PollHandler) Vote(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	pollID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	poll, err := h.pollRepository.GetPollByID(pollID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Poll not found")
	}
	if poll.ClosesAt != nil && time.Now().After(*poll.ClosesAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "Poll is closed")
	}
	if _, err := h.pollRepository.GetVote(pollID, user.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already voted")
	}

	req := new(models.VotePollRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var options []string
	if err := json.Unmarshal([]byte(poll.Options), &options); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Corrupt poll options")
	}
	if *req.OptionIndex >= len(options) {
		return echo.NewHTTPError(http.StatusBadRequest, "Option index out of range")
	}

	vote := &models.PollVote{PollID: pollID, UserID: user.ID, OptionIndex: *req.OptionIndex}
	if err := h.pollRepository.CreateVote(vote); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": vote})
}
