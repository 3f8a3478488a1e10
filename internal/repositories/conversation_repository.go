package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for direct-message data
// operations
type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	AddParticipant(participant *models.ConversationParticipant) error
	GetParticipants(conversationID uint) ([]models.ConversationParticipant, error)
	IsParticipant(conversationID, userID uint) (bool, error)
	GetConversationIDsByUserID(userID uint) ([]uint, error)
	DeleteParticipationsByUserID(userID uint) error
	CreateMessage(message *models.Message) error
	GetMessagesByConversationID(conversationID uint, page, limit int) ([]models.Message, error)
}

// PostgresConversationRepository implements ConversationRepository for
// PostgreSQL
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) CreateConversation(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *PostgresConversationRepository) AddParticipant(participant *models.ConversationParticipant) error {
	return r.db.Create(participant).Error
}

func (r *PostgresConversationRepository) GetParticipants(conversationID uint) ([]models.ConversationParticipant, error) {
	var participants []models.ConversationParticipant
	err := r.db.Where("conversation_id = ?", conversationID).Find(&participants).Error
	return participants, err
}

func (r *PostgresConversationRepository) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConversationParticipant{}).Where("conversation_id = ? AND user_id = ?", conversationID, userID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresConversationRepository) GetConversationIDsByUserID(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ConversationParticipant{}).Where("user_id = ?", userID).Pluck("conversation_id", &ids).Error
	return ids, err
}

// DeleteParticipationsByUserID removes the user from every conversation.
// Messages already sent are left in place.
func (r *PostgresConversationRepository) DeleteParticipationsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ConversationParticipant{}).Error
}

func (r *PostgresConversationRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *PostgresConversationRepository) GetMessagesByConversationID(conversationID uint, page, limit int) ([]models.Message, error) {
	var messages []models.Message
	offset := (page - 1) * limit
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}
