package handlers

import (
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the precomputed per-user feed
type FeedHandler struct {
	feedRepository     repositories.FeedRepository
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	reactionRepository repositories.ReactionRepository
	bookmarkRepository repositories.BookmarkRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	feedRepo repositories.FeedRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	reactionRepo repositories.ReactionRepository,
	bookmarkRepo repositories.BookmarkRepository,
) *FeedHandler {
	return &FeedHandler{
		feedRepository:     feedRepo,
		postRepository:     postRepo,
		userRepository:     userRepo,
		reactionRepository: reactionRepo,
		bookmarkRepository: bookmarkRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

type feedEntry struct {
	Post       models.Post         `json:"post"`
	Author     *models.UserCompact `json:"author,omitempty"`
	MyReaction string              `json:"my_reaction,omitempty"`
	IsSaved    bool                `json:"is_saved"`
}

// GetFeed reads the caller's feed entries and hydrates them with post
// documents, author profiles and the caller's own reaction/bookmark
// state. Feed entries whose post has already been deleted are skipped.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	page, limit := paginationParams(c, 20)
	skip := int64((page - 1) * limit)
	ctx := c.Request().Context()

	items, err := h.feedRepository.GetFeedByUserID(ctx, user.ID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]string, len(items))
	for i, item := range items {
		postIDs[i] = item.PostID
	}

	posts, err := h.postRepository.GetPostsByIDs(ctx, postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	postsByID := make(map[string]models.Post, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	seenAuthors := make(map[uint]bool)
	for _, post := range posts {
		postsByID[post.ID.Hex()] = post
		if !seenAuthors[post.AuthorID] {
			seenAuthors[post.AuthorID] = true
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	authors, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorsByID := make(map[uint]models.UserCompact, len(authors))
	for _, author := range authors {
		authorsByID[author.ID] = author.ToCompact()
	}

	reacted, err := h.reactionRepository.GetReactedTargets(user.ID, postIDs, models.ReactionTargetPost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	saved, err := h.bookmarkRepository.GetBookmarkedPostIDs(user.ID, postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entries := make([]feedEntry, 0, len(items))
	for _, item := range items {
		post, ok := postsByID[item.PostID]
		if !ok {
			continue
		}
		entry := feedEntry{
			Post:       post,
			MyReaction: reacted[item.PostID],
			IsSaved:    saved[item.PostID],
		}
		if author, ok := authorsByID[post.AuthorID]; ok {
			entry.Author = &author
		}
		entries = append(entries, entry)
	}

	total, err := h.feedRepository.CountByUserID(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"feed": entries},
		"meta":    paginationMeta(page, limit, total),
	})
}
