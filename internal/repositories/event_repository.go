package repositories

import (
	"time"

	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id uint) (*models.Event, error)
	GetUpcomingEvents(page, limit int) ([]models.Event, int64, error)
	DeleteEventsByOrganizerID(organizerID uint) error
	CreateRSVP(rsvp *models.EventRSVP) error
	GetRSVP(eventID, userID uint) (*models.EventRSVP, error)
	DeleteRSVP(eventID, userID uint) error
	GetRSVPsByUserID(userID uint) ([]models.EventRSVP, error)
	DeleteRSVPsByUserID(userID uint) error
	CountRSVPs(eventID uint) (int64, error)
	AdjustAttendeeCount(eventID uint, delta int) error
}

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *gorm.DB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) CreateEvent(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *PostgresEventRepository) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *PostgresEventRepository) GetUpcomingEvents(page, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	query := r.db.Model(&models.Event{}).Where("starts_at > ?", time.Now())
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("starts_at ASC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *PostgresEventRepository) DeleteEventsByOrganizerID(organizerID uint) error {
	return r.db.Unscoped().Where("organizer_id = ?", organizerID).Delete(&models.Event{}).Error
}

func (r *PostgresEventRepository) CreateRSVP(rsvp *models.EventRSVP) error {
	return r.db.Create(rsvp).Error
}

func (r *PostgresEventRepository) GetRSVP(eventID, userID uint) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *PostgresEventRepository) DeleteRSVP(eventID, userID uint) error {
	res := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.EventRSVP{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresEventRepository) GetRSVPsByUserID(userID uint) ([]models.EventRSVP, error) {
	var rsvps []models.EventRSVP
	err := r.db.Where("user_id = ?", userID).Find(&rsvps).Error
	return rsvps, err
}

func (r *PostgresEventRepository) DeleteRSVPsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.EventRSVP{}).Error
}

func (r *PostgresEventRepository) CountRSVPs(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventRSVP{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// AdjustAttendeeCount applies a signed delta to attendee_count, never
// letting it go below zero.
func (r *PostgresEventRepository) AdjustAttendeeCount(eventID uint, delta int) error {
	return adjustCounter(r.db, &models.Event{}, eventID, "attendee_count", delta)
}
