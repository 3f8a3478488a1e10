package models

import (
	"time"

	"gorm.io/gorm"
)

// Job represents a posting on the jobs board (PostgreSQL).
// ApplicantCount is denormalized over job_applications.
type Job struct {
	gorm.Model
	PosterID       uint      `json:"poster_id" gorm:"index"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location,omitempty"`
	Description    string    `json:"description"`
	JobType        string    `json:"job_type" gorm:"size:20"` // full-time, part-time, internship, research
	ApplyURL       string    `json:"apply_url,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	ApplicantCount int       `json:"applicant_count" gorm:"default:0"`
}

// JobApplication represents one user's application to a job, unique per
// (user, job) pair.
type JobApplication struct {
	gorm.Model
	JobID       uint   `json:"job_id" gorm:"index;uniqueIndex:idx_user_job_application"`
	UserID      uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_job_application"`
	CoverNote   string `json:"cover_note,omitempty"`
	Status      string `json:"status" gorm:"size:20;default:'submitted'"` // submitted, reviewed, accepted, rejected
}

// CreateJobRequest defines the request body for creating a job posting
type CreateJobRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=120"`
	Company     string     `json:"company" validate:"required,min=1,max=120"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=120"`
	Description string     `json:"description" validate:"required,min=10,max=5000"`
	JobType     string     `json:"job_type" validate:"required,oneof=full-time part-time internship research"`
	ApplyURL    string     `json:"apply_url,omitempty" validate:"omitempty,url"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// ApplyJobRequest defines the request body for applying to a job
type ApplyJobRequest struct {
	CoverNote string `json:"cover_note,omitempty" validate:"omitempty,max=2000"`
}
