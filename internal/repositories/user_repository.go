package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
	GetTopByReputation(limit int) ([]models.User, error)
	SetOnboardingComplete(id uint) error
	AdjustFollowerCount(id uint, delta int) error
	AdjustFollowingCount(id uint, delta int) error
	AdjustReputation(id uint, delta int) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser removes the user row itself. Dependent records are cleaned
// up separately by the account cascade.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Unscoped().Delete(&models.User{}, id).Error
}

func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(username) LIKE LOWER(?)", pattern, pattern).Limit(20).Find(&users).Error
	return users, err
}

// GetTopByReputation returns the highest-reputation users, used as the
// leaderboard fallback when Redis is unavailable.
func (r *PostgresUserRepository) GetTopByReputation(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("reputation DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) SetOnboardingComplete(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("onboarding_complete", true).Error
}

// AdjustFollowerCount applies a signed delta to follower_count, never
// letting it go below zero.
func (r *PostgresUserRepository) AdjustFollowerCount(id uint, delta int) error {
	return adjustCounter(r.db, &models.User{}, id, "follower_count", delta)
}

// AdjustFollowingCount applies a signed delta to following_count, never
// letting it go below zero.
func (r *PostgresUserRepository) AdjustFollowingCount(id uint, delta int) error {
	return adjustCounter(r.db, &models.User{}, id, "following_count", delta)
}

// AdjustReputation applies a signed delta to the denormalized reputation
// total.
func (r *PostgresUserRepository) AdjustReputation(id uint, delta int) error {
	return adjustCounter(r.db, &models.User{}, id, "reputation", delta)
}
