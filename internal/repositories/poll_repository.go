package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	CreatePoll(poll *models.Poll) error
	GetPollByID(id uint) (*models.Poll, error)
	GetPolls(page, limit int) ([]models.Poll, int64, error)
	ListPollIDsByAuthorID(authorID uint) ([]uint, error)
	DeletePollsByAuthorID(authorID uint) error
	CreateVote(vote *models.PollVote) error
	GetVote(pollID, userID uint) (*models.PollVote, error)
	CountVotesByOption(pollID uint) (map[int]int64, error)
	DeleteVotesByPollIDs(pollIDs []uint) error
	DeleteVotesByUserID(userID uint) error
}

// PostgresPollRepository implements PollRepository for PostgreSQL
type PostgresPollRepository struct {
	db *gorm.DB
}

// NewPostgresPollRepository creates a new PostgresPollRepository
func NewPostgresPollRepository(db *gorm.DB) *PostgresPollRepository {
	return &PostgresPollRepository{db: db}
}

func (r *PostgresPollRepository) CreatePoll(poll *models.Poll) error {
	return r.db.Create(poll).Error
}

func (r *PostgresPollRepository) GetPollByID(id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.First(&poll, id).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PostgresPollRepository) GetPolls(page, limit int) ([]models.Poll, int64, error) {
	var polls []models.Poll
	var total int64

	if err := r.db.Model(&models.Poll{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&polls).Error
	return polls, total, err
}

func (r *PostgresPollRepository) ListPollIDsByAuthorID(authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Poll{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresPollRepository) DeletePollsByAuthorID(authorID uint) error {
	return r.db.Unscoped().Where("author_id = ?", authorID).Delete(&models.Poll{}).Error
}

func (r *PostgresPollRepository) CreateVote(vote *models.PollVote) error {
	return r.db.Create(vote).Error
}

func (r *PostgresPollRepository) GetVote(pollID, userID uint) (*models.PollVote, error) {
	var vote models.PollVote
	err := r.db.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountVotesByOption tallies votes per option index on read
func (r *PostgresPollRepository) CountVotesByOption(pollID uint) (map[int]int64, error) {
	type bucket struct {
		OptionIndex int
		N           int64
	}
	var buckets []bucket
	err := r.db.Model(&models.PollVote{}).
		Select("option_index, COUNT(*) as n").
		Where("poll_id = ?", pollID).
		Group("option_index").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(buckets))
	for _, b := range buckets {
		counts[b.OptionIndex] = b.N
	}
	return counts, nil
}

func (r *PostgresPollRepository) DeleteVotesByPollIDs(pollIDs []uint) error {
	if len(pollIDs) == 0 {
		return nil
	}
	return r.db.Where("poll_id IN ?", pollIDs).Delete(&models.PollVote{}).Error
}

func (r *PostgresPollRepository) DeleteVotesByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PollVote{}).Error
}
