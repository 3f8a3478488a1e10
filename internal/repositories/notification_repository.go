package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data
// operations, including per-type preference flags
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(id, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteByActorID(actorID uint) error
	DeleteByRecipientID(recipientID uint) error
	IsTypeEnabled(userID uint, notificationType string) (bool, error)
	GetPreferences(userID uint) ([]models.NotificationPreference, error)
	UpsertPreference(userID uint, notificationType string, enabled bool) error
}

// PostgresNotificationRepository implements NotificationRepository for
// PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByRecipientID returns paginated notifications plus the total count
func (r *PostgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

// GetUnreadCount counts unread rows on read; the count is never
// maintained incrementally.
func (r *PostgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

func (r *PostgresNotificationRepository) MarkAsRead(id, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).Where("id = ? AND recipient_id = ?", id, recipientID).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}

func (r *PostgresNotificationRepository) DeleteByActorID(actorID uint) error {
	return r.db.Where("actor_id = ?", actorID).Delete(&models.Notification{}).Error
}

func (r *PostgresNotificationRepository) DeleteByRecipientID(recipientID uint) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}

// IsTypeEnabled reports whether the recipient accepts a notification
// type. Absence of a preference row means enabled.
func (r *PostgresNotificationRepository) IsTypeEnabled(userID uint, notificationType string) (bool, error) {
	var pref models.NotificationPreference
	err := r.db.Where("user_id = ? AND type = ?", userID, notificationType).First(&pref).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return true, nil
		}
		return false, err
	}
	return pref.Enabled, nil
}

func (r *PostgresNotificationRepository) GetPreferences(userID uint) ([]models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	err := r.db.Where("user_id = ?", userID).Find(&prefs).Error
	return prefs, err
}

func (r *PostgresNotificationRepository) UpsertPreference(userID uint, notificationType string, enabled bool) error {
	var pref models.NotificationPreference
	err := r.db.Where("user_id = ? AND type = ?", userID, notificationType).First(&pref).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		pref = models.NotificationPreference{UserID: userID, Type: notificationType, Enabled: enabled}
		return r.db.Create(&pref).Error
	}
	return r.db.Model(&pref).Update("enabled", enabled).Error
}
