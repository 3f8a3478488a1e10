package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	GetReaction(userID uint, targetID, targetType string) (*models.Reaction, error)
	CreateReaction(reaction *models.Reaction) error
	UpdateReactionType(id uint, reactionType string) error
	DeleteReaction(userID uint, targetID, targetType string) error
	GetReactionsByTarget(targetID, targetType string) ([]models.Reaction, error)
	GetReactionsByUserID(userID uint) ([]models.Reaction, error)
	GetReactedTargets(userID uint, targetIDs []string, targetType string) (map[string]string, error)
	DeleteByTarget(targetID, targetType string) error
	DeleteByUserID(userID uint) error
	CountByTarget(targetID, targetType string) (int64, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// GetReaction retrieves the single reaction for (user, target), if any
func (r *PostgresReactionRepository) GetReaction(userID uint, targetID, targetType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *PostgresReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// UpdateReactionType patches the type (and timestamp) of an existing
// reaction row in place.
func (r *PostgresReactionRepository) UpdateReactionType(id uint, reactionType string) error {
	return r.db.Model(&models.Reaction{}).Where("id = ?", id).Update("type", reactionType).Error
}

func (r *PostgresReactionRepository) DeleteReaction(userID uint, targetID, targetType string) error {
	return r.db.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).Delete(&models.Reaction{}).Error
}

// GetReactionsByTarget returns every reaction row for a target. The
// recount buckets these by type.
func (r *PostgresReactionRepository) GetReactionsByTarget(targetID, targetType string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.Where("target_id = ? AND target_type = ?", targetID, targetType).Find(&reactions).Error
	return reactions, err
}

func (r *PostgresReactionRepository) GetReactionsByUserID(userID uint) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.Where("user_id = ?", userID).Find(&reactions).Error
	return reactions, err
}

// GetReactedTargets returns, for the given targets, the reaction type the
// user currently has on each. Targets the user has not reacted to are
// absent from the map.
func (r *PostgresReactionRepository) GetReactedTargets(userID uint, targetIDs []string, targetType string) (map[string]string, error) {
	if len(targetIDs) == 0 {
		return map[string]string{}, nil
	}
	var reactions []models.Reaction
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	reacted := make(map[string]string, len(reactions))
	for _, reaction := range reactions {
		reacted[reaction.TargetID] = reaction.Type
	}
	return reacted, nil
}

func (r *PostgresReactionRepository) DeleteByTarget(targetID, targetType string) error {
	return r.db.Where("target_id = ? AND target_type = ?", targetID, targetType).Delete(&models.Reaction{}).Error
}

func (r *PostgresReactionRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Reaction{}).Error
}

func (r *PostgresReactionRepository) CountByTarget(targetID, targetType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reaction{}).Where("target_id = ? AND target_type = ?", targetID, targetType).Count(&count).Error
	return count, err
}
