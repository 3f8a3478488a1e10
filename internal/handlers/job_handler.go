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

// JobHandler handles jobs-board HTTP requests
type JobHandler struct {
	jobRepository  repositories.JobRepository
	userRepository repositories.UserRepository
	counterService *services.CounterService
	sched          *scheduler.Scheduler
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	sched *scheduler.Scheduler,
) *JobHandler {
	return &JobHandler{
		jobRepository:  jobRepo,
		userRepository: userRepo,
		counterService: counters,
		sched:          sched,
	}
}

// RegisterJobRoutes registers jobs-board routes
func (h *JobHandler) RegisterJobRoutes(g *echo.Group) {
	g.POST("/jobs", h.CreateJob)
	g.GET("/jobs", h.GetJobs)
	g.GET("/jobs/:id", h.GetJob)
	g.POST("/jobs/:id/apply", h.ApplyToJob)
	g.DELETE("/jobs/:id/apply", h.WithdrawApplication)
	g.GET("/users/me/applications", h.GetMyApplications)
}

// CreateJob creates a job posting
func (h *JobHandler) CreateJob(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreateJobRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job := &models.Job{
		PosterID:    user.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		JobType:     req.JobType,
		ApplyURL:    req.ApplyURL,
		Deadline:    req.Deadline,
	}
	if err := h.jobRepository.CreateJob(job); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": job})
}

// GetJobs lists job postings, optionally filtered by ?type=
func (h *JobHandler) GetJobs(c echo.Context) error {
	page, limit := paginationParams(c, 20)
	jobs, total, err := h.jobRepository.GetJobs(c.QueryParam("type"), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"jobs": jobs},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetJob retrieves a single job posting
func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	job, err := h.jobRepository.GetJobByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": job})
}

// ApplyToJob files an application. The applicant count is adjusted by a
// scheduled task.
func (h *JobHandler) ApplyToJob(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	jobID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.jobRepository.GetJobByID(jobID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if _, err := h.jobRepository.GetApplication(jobID, user.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already applied to this job")
	}

	req := new(models.ApplyJobRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	application := &models.JobApplication{
		JobID:     jobID,
		UserID:    user.ID,
		CoverNote: req.CoverNote,
	}
	if err := h.jobRepository.CreateApplication(application); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sched.RunAfter(0, "counters.applicant_count", func(ctx context.Context) error {
		return h.counterService.AdjustJobApplicantCount(ctx, jobID, 1)
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": application})
}

// GetMyApplications lists the caller's job applications
func (h *JobHandler) GetMyApplications(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	applications, err := h.jobRepository.GetApplicationsByUserID(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"applications": applications}})
}

// WithdrawApplication removes the caller's application
func (h *JobHandler) WithdrawApplication(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	jobID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.jobRepository.DeleteApplication(jobID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Application not found")
	}

	h.sched.RunAfter(0, "counters.applicant_count", func(ctx context.Context) error {
		return h.counterService.AdjustJobApplicantCount(ctx, jobID, -1)
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"applied": false}})
}
