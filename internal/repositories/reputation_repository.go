package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// ReputationRepository defines the interface for the gamification ledger
type ReputationRepository interface {
	CreateEvent(event *models.ReputationEvent) error
	GetEventsByUserID(userID uint, limit int) ([]models.ReputationEvent, error)
	SumByUserID(userID uint) (int64, error)
	DeleteByUserID(userID uint) error
}

// PostgresReputationRepository implements ReputationRepository for
// PostgreSQL
type PostgresReputationRepository struct {
	db *gorm.DB
}

// NewPostgresReputationRepository creates a new PostgresReputationRepository
func NewPostgresReputationRepository(db *gorm.DB) *PostgresReputationRepository {
	return &PostgresReputationRepository{db: db}
}

func (r *PostgresReputationRepository) CreateEvent(event *models.ReputationEvent) error {
	return r.db.Create(event).Error
}

func (r *PostgresReputationRepository) GetEventsByUserID(userID uint, limit int) ([]models.ReputationEvent, error) {
	var events []models.ReputationEvent
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// SumByUserID totals the ledger for one user; equals users.reputation at
// quiescence.
func (r *PostgresReputationRepository) SumByUserID(userID uint) (int64, error) {
	var sum *int64
	err := r.db.Model(&models.ReputationEvent{}).Where("user_id = ?", userID).Select("SUM(points)").Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

func (r *PostgresReputationRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ReputationEvent{}).Error
}
