package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User represents a member of the university network (PostgreSQL).
// FollowerCount, FollowingCount and Reputation are denormalized; the
// source of truth is the follows table and the reputation_events ledger.
type User struct {
	gorm.Model         `json:"-"`
	ID                 uint   `json:"id" gorm:"primaryKey"`
	Name               string `json:"name"`
	Username           string `json:"username" gorm:"uniqueIndex"`
	Email              string `json:"email" gorm:"uniqueIndex"`
	Bio                string `json:"bio,omitempty"`
	Department         string `json:"department,omitempty"`
	GraduationYear     int    `json:"graduation_year,omitempty"`
	AvatarURL          string `json:"avatar_url,omitempty"`
	FirebaseUID        string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	FollowerCount      int    `json:"follower_count" gorm:"default:0"`
	FollowingCount     int    `json:"following_count" gorm:"default:0"`
	Reputation         int    `json:"reputation" gorm:"default:0"`
	OnboardingComplete bool   `json:"onboarding_complete" gorm:"default:false"`
}

// UserCompact is the embedded author/actor representation used in
// enriched responses.
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// SyncUserRequest defines the request body for bootstrapping a local user
// row from a verified identity token
type SyncUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest defines the request body for updating a profile
type UpdateProfileRequest struct {
	Name           string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Department     string `json:"department,omitempty" validate:"omitempty,max=100"`
	GraduationYear int    `json:"graduation_year,omitempty" validate:"omitempty,min=1900,max=2100"`
	AvatarURL      string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
