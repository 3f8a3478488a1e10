package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// RepostRepository defines the interface for repost data operations
type RepostRepository interface {
	GetRepost(userID uint, originalPostID string) (*models.Repost, error)
	CreateRepost(repost *models.Repost) error
	DeleteRepost(userID uint, originalPostID string) error
	GetRepostsByUserID(userID uint) ([]models.Repost, error)
	DeleteByPostID(originalPostID string) error
	DeleteByUserID(userID uint) error
	CountByPostID(originalPostID string) (int64, error)
}

// PostgresRepostRepository implements RepostRepository for PostgreSQL
type PostgresRepostRepository struct {
	db *gorm.DB
}

// NewPostgresRepostRepository creates a new PostgresRepostRepository
func NewPostgresRepostRepository(db *gorm.DB) *PostgresRepostRepository {
	return &PostgresRepostRepository{db: db}
}

func (r *PostgresRepostRepository) GetRepost(userID uint, originalPostID string) (*models.Repost, error) {
	var repost models.Repost
	err := r.db.Where("user_id = ? AND original_post_id = ?", userID, originalPostID).First(&repost).Error
	if err != nil {
		return nil, err
	}
	return &repost, nil
}

func (r *PostgresRepostRepository) CreateRepost(repost *models.Repost) error {
	return r.db.Create(repost).Error
}

func (r *PostgresRepostRepository) DeleteRepost(userID uint, originalPostID string) error {
	res := r.db.Where("user_id = ? AND original_post_id = ?", userID, originalPostID).Delete(&models.Repost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRepostRepository) GetRepostsByUserID(userID uint) ([]models.Repost, error) {
	var reposts []models.Repost
	err := r.db.Where("user_id = ?", userID).Find(&reposts).Error
	return reposts, err
}

func (r *PostgresRepostRepository) DeleteByPostID(originalPostID string) error {
	return r.db.Where("original_post_id = ?", originalPostID).Delete(&models.Repost{}).Error
}

func (r *PostgresRepostRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Repost{}).Error
}

func (r *PostgresRepostRepository) CountByPostID(originalPostID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Repost{}).Where("original_post_id = ?", originalPostID).Count(&count).Error
	return count, err
}
