package handlers

import (
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles bookmark-related HTTP requests. Bookmarks are
// private to the user and keep no counter on the post.
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(
	bookmarkRepo repositories.BookmarkRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
		userRepository:     userRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.CreateBookmark)
	g.DELETE("/posts/:id/bookmark", h.DeleteBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
}

// CreateBookmark saves a post for the caller
func (h *BookmarkHandler) CreateBookmark(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookmarked, err := h.bookmarkRepository.HasUserBookmarked(user.ID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if bookmarked {
		return echo.NewHTTPError(http.StatusConflict, "Already bookmarked")
	}

	bookmark := &models.Bookmark{UserID: user.ID, PostID: postID}
	if err := h.bookmarkRepository.CreateBookmark(bookmark); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": bookmark})
}

// DeleteBookmark removes a saved post
func (h *BookmarkHandler) DeleteBookmark(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.bookmarkRepository.DeleteBookmark(user.ID, c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": false}})
}

// GetBookmarks lists the caller's saved posts with the post documents
// attached. Bookmarks whose post has been deleted are skipped.
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUserID(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		postIDs[i] = b.PostID
	}
	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}
