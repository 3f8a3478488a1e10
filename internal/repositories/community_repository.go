package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community data operations
type CommunityRepository interface {
	CreateCommunity(community *models.Community) error
	GetCommunityByID(id uint) (*models.Community, error)
	GetCommunities(page, limit int) ([]models.Community, int64, error)
	CreateMember(member *models.CommunityMember) error
	GetMember(communityID, userID uint) (*models.CommunityMember, error)
	DeleteMember(communityID, userID uint) error
	GetMembershipsByUserID(userID uint) ([]models.CommunityMember, error)
	DeleteMembershipsByUserID(userID uint) error
	CountMembers(communityID uint) (int64, error)
	AdjustMemberCount(communityID uint, delta int) error
}

// PostgresCommunityRepository implements CommunityRepository for PostgreSQL
type PostgresCommunityRepository struct {
	db *gorm.DB
}

// NewPostgresCommunityRepository creates a new PostgresCommunityRepository
func NewPostgresCommunityRepository(db *gorm.DB) *PostgresCommunityRepository {
	return &PostgresCommunityRepository{db: db}
}

func (r *PostgresCommunityRepository) CreateCommunity(community *models.Community) error {
	return r.db.Create(community).Error
}

func (r *PostgresCommunityRepository) GetCommunityByID(id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *PostgresCommunityRepository) GetCommunities(page, limit int) ([]models.Community, int64, error) {
	var communities []models.Community
	var total int64

	if err := r.db.Model(&models.Community{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("member_count DESC").Offset(offset).Limit(limit).Find(&communities).Error
	return communities, total, err
}

func (r *PostgresCommunityRepository) CreateMember(member *models.CommunityMember) error {
	return r.db.Create(member).Error
}

func (r *PostgresCommunityRepository) GetMember(communityID, userID uint) (*models.CommunityMember, error) {
	var member models.CommunityMember
	err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresCommunityRepository) DeleteMember(communityID, userID uint) error {
	res := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).Delete(&models.CommunityMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresCommunityRepository) GetMembershipsByUserID(userID uint) ([]models.CommunityMember, error) {
	var members []models.CommunityMember
	err := r.db.Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

func (r *PostgresCommunityRepository) DeleteMembershipsByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CommunityMember{}).Error
}

func (r *PostgresCommunityRepository) CountMembers(communityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommunityMember{}).Where("community_id = ?", communityID).Count(&count).Error
	return count, err
}

// AdjustMemberCount applies a signed delta to member_count, never
// letting it go below zero.
func (r *PostgresCommunityRepository) AdjustMemberCount(communityID uint, delta int) error {
	return adjustCounter(r.db, &models.Community{}, communityID, "member_count", delta)
}
