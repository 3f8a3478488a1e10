package handlers

import (
	"errors"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AuthHandler bootstraps local user rows from verified identity tokens
type AuthHandler struct {
	userRepository repositories.UserRepository
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{userRepository: userRepo}
}

// RegisterAuthRoutes registers auth routes on a group that already has
// the identity-token middleware applied
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/sync", h.SyncUser)
}

// SyncUser creates the local user row for a freshly authenticated
// identity, or returns the existing one.
func (h *AuthHandler) SyncUser(c echo.Context) error {
	uid, ok := c.Get("firebaseUID").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	existing, err := h.userRepository.GetUserByFirebaseUID(uid)
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": existing})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.SyncUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		Name:        req.Name,
		Username:    req.Username,
		Email:       req.Email,
		FirebaseUID: uid,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Username or email already taken")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": user})
}
