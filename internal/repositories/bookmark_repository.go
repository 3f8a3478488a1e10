package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	CreateBookmark(bookmark *models.Bookmark) error
	DeleteBookmark(userID uint, postID string) error
	HasUserBookmarked(userID uint, postID string) (bool, error)
	GetBookmarksByUserID(userID uint) ([]models.Bookmark, error)
	GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
	DeleteByPostID(postID string) error
	DeleteByUserID(userID uint) error
	CountByPostID(postID string) (int64, error)
}

// PostgresBookmarkRepository implements BookmarkRepository for PostgreSQL
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository
func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) CreateBookmark(bookmark *models.Bookmark) error {
	return r.db.Create(bookmark).Error
}

func (r *PostgresBookmarkRepository) DeleteBookmark(userID uint, postID string) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresBookmarkRepository) HasUserBookmarked(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) GetBookmarksByUserID(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}

// GetBookmarkedPostIDs returns which of postIDs the user has saved
func (r *PostgresBookmarkRepository) GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	saved := make(map[string]bool)
	if len(postIDs) == 0 {
		return saved, nil
	}

	var ids []string
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND post_id IN ?", userID, postIDs).Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

func (r *PostgresBookmarkRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Bookmark{}).Error
}

func (r *PostgresBookmarkRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Bookmark{}).Error
}

func (r *PostgresBookmarkRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
