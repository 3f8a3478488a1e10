package repositories

import (
	"time"

	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveStories(now time.Time) ([]models.Story, error)
	ListStoryIDsByUserID(userID uint) ([]uint, error)
	DeleteStoriesByUserID(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
	CreateView(view *models.StoryView) error
	HasViewed(storyID, userID uint) (bool, error)
	CountViews(storyID uint) (int64, error)
	DeleteViewsByStoryIDs(storyIDs []uint) error
	DeleteViewsByUserID(userID uint) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *PostgresStoryRepository) GetActiveStories(now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("expires_at > ?", now).Order("created_at DESC").Find(&stories).Error
	return stories, err
}

func (r *PostgresStoryRepository) ListStoryIDsByUserID(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Story{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresStoryRepository) DeleteStoriesByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Story{}).Error
}

// DeleteExpired purges stories whose expiry has passed, returning the
// number of rows removed. Run by the scheduled sweep.
func (r *PostgresStoryRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Unscoped().Where("expires_at <= ?", now).Delete(&models.Story{})
	return res.RowsAffected, res.Error
}

func (r *PostgresStoryRepository) CreateView(view *models.StoryView) error {
	return r.db.Create(view).Error
}

func (r *PostgresStoryRepository) HasViewed(storyID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.StoryView{}).Where("story_id = ? AND user_id = ?", storyID, userID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresStoryRepository) CountViews(storyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.StoryView{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, err
}

func (r *PostgresStoryRepository) DeleteViewsByStoryIDs(storyIDs []uint) error {
	if len(storyIDs) == 0 {
		return nil
	}
	return r.db.Where("story_id IN ?", storyIDs).Delete(&models.StoryView{}).Error
}

func (r *PostgresStoryRepository) DeleteViewsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.StoryView{}).Error
}
