package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID string) ([]models.Comment, error)
	GetRepliesByParentID(parentID uint) ([]models.Comment, error)
	GetCommentsByUserID(userID uint) ([]models.Comment, error)
	ListCommentIDsByPostID(postID string) ([]uint, error)
	CountByPostID(postID string) (int64, error)
	UpdateComment(comment *models.Comment) error
	DeleteCommentsByIDs(ids []uint) error
	DeleteCommentsByPostID(postID string) error
	AdjustReplyCount(id uint, delta int) error
	SetLikeCount(id uint, total int) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// GetRepliesByParentID returns the direct replies of a comment. The
// subtree walk in the cleanup service is built on this lookup.
func (r *PostgresCommentRepository) GetRepliesByParentID(parentID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("parent_comment_id = ?", parentID).Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) GetCommentsByUserID(userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("user_id = ?", userID).Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) ListCommentIDsByPostID(postID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresCommentRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteCommentsByIDs hard-deletes a batch of comments. Already-deleted
// rows are skipped silently.
func (r *PostgresCommentRepository) DeleteCommentsByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Unscoped().Where("id IN ?", ids).Delete(&models.Comment{}).Error
}

// DeleteCommentsByPostID hard-deletes every comment on a post. Used by
// the post cascade, where per-comment counter corrections are moot.
func (r *PostgresCommentRepository) DeleteCommentsByPostID(postID string) error {
	return r.db.Unscoped().Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}

// AdjustReplyCount applies a signed delta to reply_count, never letting
// it go below zero.
func (r *PostgresCommentRepository) AdjustReplyCount(id uint, delta int) error {
	return adjustCounter(r.db, &models.Comment{}, id, "reply_count", delta)
}

// SetLikeCount overwrites the aggregate reaction count after a recount
func (r *PostgresCommentRepository) SetLikeCount(id uint, total int) error {
	res := r.db.Model(&models.Comment{}).Where("id = ?", id).UpdateColumn("like_count", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
