package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EventHandler handles campus-event HTTP requests
type EventHandler struct {
	eventRepository repositories.EventRepository
	userRepository  repositories.UserRepository
	counterService  *services.CounterService
	notifier        *services.Notifier
	sched           *scheduler.Scheduler
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	notifier *services.Notifier,
	sched *scheduler.Scheduler,
) *EventHandler {
	return &EventHandler{
		eventRepository: eventRepo,
		userRepository:  userRepo,
		counterService:  counters,
		notifier:        notifier,
		sched:           sched,
	}
}

// RegisterEventRoutes registers event-related routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.GetUpcomingEvents)
	g.GET("/events/:id", h.GetEvent)
	g.POST("/events/:id/rsvp", h.RSVP)
	g.DELETE("/events/:id/rsvp", h.CancelRSVP)
}

// CreateEvent creates an event with the caller as organizer
func (h *EventHandler) CreateEvent(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreateEventRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event := &models.Event{
		OrganizerID: user.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := h.eventRepository.CreateEvent(event); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": event})
}

// GetUpcomingEvents lists events that have not started yet
func (h *EventHandler) GetUpcomingEvents(c echo.Context) error {
	page, limit := paginationParams(c, 20)
	events, total, err := h.eventRepository.GetUpcomingEvents(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"events": events},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetEvent retrieves a single event
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetEventByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": event})
}

// RSVP registers the caller as attending. The attendee count and the
// organizer's notification run as scheduled tasks.
func (h *EventHandler) RSVP(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetEventByID(eventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	if _, err := h.eventRepository.GetRSVP(eventID, user.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already attending this event")
	}

	rsvp := &models.EventRSVP{EventID: eventID, UserID: user.ID}
	if err := h.eventRepository.CreateRSVP(rsvp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := user.ID
	actorName := user.Name
	organizerID := event.OrganizerID
	referenceID := fmt.Sprintf("%d", eventID)
	h.sched.RunAfter(0, "counters.attendee_count", func(ctx context.Context) error {
		return h.counterService.AdjustEventAttendeeCount(ctx, eventID, 1)
	})
	h.sched.RunAfter(0, "notifications.event", func(ctx context.Context) error {
		_, err := h.notifier.Emit(ctx, organizerID, actorID, models.NotificationEvent, referenceID, actorName+" is attending your event")
		return err
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": rsvp})
}

// CancelRSVP withdraws the caller's RSVP
func (h *EventHandler) CancelRSVP(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventRepository.DeleteRSVP(eventID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "RSVP not found")
	}

	h.sched.RunAfter(0, "counters.attendee_count", func(ctx context.Context) error {
		return h.counterService.AdjustEventAttendeeCount(ctx, eventID, -1)
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"attending": false}})
}
