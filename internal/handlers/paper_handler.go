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

// PaperHandler handles academic-paper HTTP requests
type PaperHandler struct {
	paperRepository repositories.PaperRepository
	userRepository  repositories.UserRepository
	reputation      *services.ReputationService
	sched           *scheduler.Scheduler
}

// NewPaperHandler creates a new PaperHandler
func NewPaperHandler(
	paperRepo repositories.PaperRepository,
	userRepo repositories.UserRepository,
	reputation *services.ReputationService,
	sched *scheduler.Scheduler,
) *PaperHandler {
	return &PaperHandler{
		paperRepository: paperRepo,
		userRepository:  userRepo,
		reputation:      reputation,
		sched:           sched,
	}
}

// RegisterPaperRoutes registers paper-related routes
func (h *PaperHandler) RegisterPaperRoutes(g *echo.Group) {
	g.POST("/papers", h.CreatePaper)
	g.GET("/papers", h.GetPapers)
	g.GET("/papers/:id", h.GetPaper)
	g.POST("/papers/:id/claim", h.ClaimAuthorship)
	g.GET("/users/:id/papers", h.GetPapersByUploader)
}

// CreatePaper publishes a paper, links its authors and schedules the
// reputation award for each linked author.
func (h *PaperHandler) CreatePaper(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreatePaperRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	paper := &models.Paper{
		UploaderID: user.ID,
		Title:      req.Title,
		Abstract:   req.Abstract,
		Venue:      req.Venue,
		Year:       req.Year,
		PDFLink:    req.PDFLink,
		DOI:        req.DOI,
	}
	if err := h.paperRepository.CreatePaper(paper); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorIDs := req.AuthorIDs
	if len(authorIDs) == 0 {
		authorIDs = []uint{user.ID}
	}
	for i, authorID := range authorIDs {
		link := &models.PaperAuthor{PaperID: paper.ID, UserID: authorID, Position: i}
		if err := h.paperRepository.CreateAuthorLink(link); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	for _, authorID := range authorIDs {
		id := authorID
		h.sched.RunAfter(0, "reputation.paper_published", func(ctx context.Context) error {
			return h.reputation.Award(ctx, id, models.ReputationPaperPublished, "paper_published")
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": paper})
}

// GetPapers lists papers, newest first
func (h *PaperHandler) GetPapers(c echo.Context) error {
	page, limit := paginationParams(c, 20)
	papers, total, err := h.paperRepository.GetPapers(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"papers": papers},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetPaper retrieves a single paper with its author links
func (h *PaperHandler) GetPaper(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	paper, err := h.paperRepository.GetPaperByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Paper not found")
	}
	links, err := h.paperRepository.GetAuthorLinksByPaperID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"paper": paper, "authors": links},
	})
}

// ClaimAuthorship links the caller as an author of an existing paper.
// The reputation award is scheduled, matching publication.
func (h *PaperHandler) ClaimAuthorship(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	paperID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.paperRepository.GetPaperByID(paperID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Paper not found")
	}
	if _, err := h.paperRepository.GetAuthorLink(paperID, user.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already an author of this paper")
	}

	links, err := h.paperRepository.GetAuthorLinksByPaperID(paperID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	link := &models.PaperAuthor{PaperID: paperID, UserID: user.ID, Position: len(links)}
	if err := h.paperRepository.CreateAuthorLink(link); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sched.RunAfter(0, "reputation.paper_published", func(ctx context.Context) error {
		return h.reputation.Award(ctx, user.ID, models.ReputationPaperPublished, "paper_published")
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": link})
}

// GetPapersByUploader lists papers uploaded by a user
func (h *PaperHandler) GetPapersByUploader(c echo.Context) error {
	uploaderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	papers, err := h.paperRepository.GetPapersByUploaderID(uploaderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"papers": papers}})
}
