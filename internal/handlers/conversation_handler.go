package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConversationHandler handles direct-message HTTP requests
type ConversationHandler struct {
	conversationRepository repositories.ConversationRepository
	userRepository         repositories.UserRepository
	notifier               *services.Notifier
	sched                  *scheduler.Scheduler
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(
	conversationRepo repositories.ConversationRepository,
	userRepo repositories.UserRepository,
	notifier *services.Notifier,
	sched *scheduler.Scheduler,
) *ConversationHandler {
	return &ConversationHandler{
		conversationRepository: conversationRepo,
		userRepository:         userRepo,
		notifier:               notifier,
		sched:                  sched,
	}
}

// RegisterConversationRoutes registers conversation-related routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations", h.GetMyConversations)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.GET("/conversations/:id/messages", h.GetMessages)
}

// CreateConversation starts a thread with the caller and the listed
// participants
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreateConversationRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conversation := &models.Conversation{CreatorID: user.ID}
	if err := h.conversationRepository.CreateConversation(conversation); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	participantIDs := append([]uint{user.ID}, req.ParticipantIDs...)
	seen := make(map[uint]bool)
	for _, id := range participantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := h.userRepository.GetUserByID(id); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("User %d not found", id))
		}
		participant := &models.ConversationParticipant{
			ConversationID: conversation.ID,
			UserID:         id,
			JoinedAt:       time.Now(),
		}
		if err := h.conversationRepository.AddParticipant(participant); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": conversation})
}

// GetMyConversations lists the IDs of conversations the caller is in
func (h *ConversationHandler) GetMyConversations(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	ids, err := h.conversationRepository.GetConversationIDsByUserID(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversation_ids": ids}})
}

// SendMessage posts a message to a conversation the caller belongs to.
// Each other participant gets a notification via scheduled tasks.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	isParticipant, err := h.conversationRepository.IsParticipant(conversationID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant in this conversation")
	}

	req := new(models.SendMessageRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       user.ID,
		Content:        req.Content,
	}
	if err := h.conversationRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	participants, err := h.conversationRepository.GetParticipants(conversationID)
	if err == nil {
		actorID := user.ID
		actorName := user.Name
		referenceID := fmt.Sprintf("%d", conversationID)
		for _, p := range participants {
			recipientID := p.UserID
			if recipientID == actorID {
				continue
			}
			h.sched.RunAfter(0, "notifications.message", func(ctx context.Context) error {
				_, err := h.notifier.Emit(ctx, recipientID, actorID, models.NotificationMessage, referenceID, actorName+" sent you a message")
				return err
			})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": message})
}

// GetMessages lists a conversation's messages, oldest first
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	conversationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	isParticipant, err := h.conversationRepository.IsParticipant(conversationID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant in this conversation")
	}

	page, limit := paginationParams(c, 50)
	messages, err := h.conversationRepository.GetMessagesByConversationID(conversationID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"messages": messages},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}
