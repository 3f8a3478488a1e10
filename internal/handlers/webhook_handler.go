package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// IdentityEvent is the payload delivered by the identity provider's
// webhook on user lifecycle changes
type IdentityEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"` // user.created, user.updated, user.deleted
	Data struct {
		UID      string `json:"uid"`
		Email    string `json:"email,omitempty"`
		Name     string `json:"name,omitempty"`
		Username string `json:"username,omitempty"`
	} `json:"data"`
}

// WebhookHandler receives identity-provider lifecycle events. A
// user.deleted event triggers the full account cascade.
type WebhookHandler struct {
	secret         string
	userRepository repositories.UserRepository
	cleanupService *services.CleanupService
	sched          *scheduler.Scheduler
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, userRepo repositories.UserRepository, cleanup *services.CleanupService, sched *scheduler.Scheduler) *WebhookHandler {
	return &WebhookHandler{
		secret:         secret,
		userRepository: userRepo,
		cleanupService: cleanup,
		sched:          sched,
	}
}

// RegisterWebhookRoutes registers the identity webhook endpoint
func (h *WebhookHandler) RegisterWebhookRoutes(g *echo.Group) {
	g.POST("/identity", h.HandleIdentityEvent)
}

// HandleIdentityEvent verifies the HMAC signature and applies the event
func (h *WebhookHandler) HandleIdentityEvent(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable body")
	}

	signature := c.Request().Header.Get("X-Webhook-Signature")
	if !h.verifySignature(body, signature) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid webhook signature")
	}

	var event IdentityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}

	switch event.Type {
	case "user.created":
		err = h.handleCreated(event)
	case "user.updated":
		err = h.handleUpdated(event)
	case "user.deleted":
		err = h.handleDeleted(event)
	default:
		// Unknown event types are acknowledged so the provider stops
		// redelivering them.
		return c.JSON(http.StatusOK, echo.Map{"success": true, "ignored": true})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (h *WebhookHandler) handleCreated(event IdentityEvent) error {
	if _, err := h.userRepository.GetUserByFirebaseUID(event.Data.UID); err == nil {
		return nil // already provisioned, redelivery is a no-op
	}

	user := &models.User{
		FirebaseUID: event.Data.UID,
		Email:       event.Data.Email,
		Name:        event.Data.Name,
		Username:    event.Data.Username,
	}
	return h.userRepository.CreateUser(user)
}

func (h *WebhookHandler) handleUpdated(event IdentityEvent) error {
	user, err := h.userRepository.GetUserByFirebaseUID(event.Data.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.handleCreated(event)
		}
		return err
	}

	if event.Data.Email != "" {
		user.Email = event.Data.Email
	}
	if event.Data.Name != "" {
		user.Name = event.Data.Name
	}
	return h.userRepository.UpdateUser(user)
}

func (h *WebhookHandler) handleDeleted(event IdentityEvent) error {
	user, err := h.userRepository.GetUserByFirebaseUID(event.Data.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	userID := user.ID
	h.sched.RunAfter(0, "cleanup.delete_account", func(ctx context.Context) error {
		return h.cleanupService.DeleteAccount(ctx, userID)
	})
	return nil
}
