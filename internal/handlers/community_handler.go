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

// CommunityHandler handles community HTTP requests
type CommunityHandler struct {
	communityRepository repositories.CommunityRepository
	userRepository      repositories.UserRepository
	counterService      *services.CounterService
	sched               *scheduler.Scheduler
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(
	communityRepo repositories.CommunityRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	sched *scheduler.Scheduler,
) *CommunityHandler {
	return &CommunityHandler{
		communityRepository: communityRepo,
		userRepository:      userRepo,
		counterService:      counters,
		sched:               sched,
	}
}

// RegisterCommunityRoutes registers community-related routes
func (h *CommunityHandler) RegisterCommunityRoutes(g *echo.Group) {
	g.POST("/communities", h.CreateCommunity)
	g.GET("/communities", h.GetCommunities)
	g.GET("/communities/:id", h.GetCommunity)
	g.POST("/communities/:id/join", h.JoinCommunity)
	g.DELETE("/communities/:id/join", h.LeaveCommunity)
}

// CreateCommunity creates a community with the caller as creator and
// first member
func (h *CommunityHandler) CreateCommunity(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreateCommunityRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	community := &models.Community{
		CreatorID:   user.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.communityRepository.CreateCommunity(community); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "A community with that name already exists")
	}

	member := &models.CommunityMember{CommunityID: community.ID, UserID: user.ID, Role: "moderator"}
	if err := h.communityRepository.CreateMember(member); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	communityID := community.ID
	h.sched.RunAfter(0, "counters.member_count", func(ctx context.Context) error {
		return h.counterService.AdjustCommunityMemberCount(ctx, communityID, 1)
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": community})
}

// GetCommunities lists communities
func (h *CommunityHandler) GetCommunities(c echo.Context) error {
	page, limit := paginationParams(c, 20)
	communities, total, err := h.communityRepository.GetCommunities(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"communities": communities},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetCommunity retrieves a single community
func (h *CommunityHandler) GetCommunity(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	community, err := h.communityRepository.GetCommunityByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Community not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": community})
}

// JoinCommunity adds the caller as a member. The member count is
// adjusted by a scheduled task.
func (h *CommunityHandler) JoinCommunity(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	communityID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.communityRepository.GetCommunityByID(communityID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Community not found")
	}
	if _, err := h.communityRepository.GetMember(communityID, user.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already a member")
	}

	member := &models.CommunityMember{CommunityID: communityID, UserID: user.ID}
	if err := h.communityRepository.CreateMember(member); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sched.RunAfter(0, "counters.member_count", func(ctx context.Context) error {
		return h.counterService.AdjustCommunityMemberCount(ctx, communityID, 1)
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": member})
}

// LeaveCommunity removes the caller's membership
func (h *CommunityHandler) LeaveCommunity(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	communityID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.communityRepository.DeleteMember(communityID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Membership not found")
	}

	h.sched.RunAfter(0, "counters.member_count", func(ctx context.Context) error {
		return h.counterService.AdjustCommunityMemberCount(ctx, communityID, -1)
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"member": false}})
}
