package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// JobRepository defines the interface for jobs-board data operations
type JobRepository interface {
	CreateJob(job *models.Job) error
	GetJobByID(id uint) (*models.Job, error)
	GetJobs(jobType string, page, limit int) ([]models.Job, int64, error)
	DeleteJobsByPosterID(posterID uint) error
	CreateApplication(application *models.JobApplication) error
	GetApplication(jobID, userID uint) (*models.JobApplication, error)
	DeleteApplication(jobID, userID uint) error
	GetApplicationsByUserID(userID uint) ([]models.JobApplication, error)
	DeleteApplicationsByUserID(userID uint) error
	CountApplications(jobID uint) (int64, error)
	AdjustApplicantCount(jobID uint, delta int) error
}

// PostgresJobRepository implements JobRepository for PostgreSQL
type PostgresJobRepository struct {
	db *gorm.DB
}

// NewPostgresJobRepository creates a new PostgresJobRepository
func NewPostgresJobRepository(db *gorm.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) CreateJob(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *PostgresJobRepository) GetJobByID(id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobs returns paginated job postings, optionally filtered by type
func (r *PostgresJobRepository) GetJobs(jobType string, page, limit int) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	query := r.db.Model(&models.Job{})
	if jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobs).Error
	return jobs, total, err
}

func (r *PostgresJobRepository) DeleteJobsByPosterID(posterID uint) error {
	return r.db.Unscoped().Where("poster_id = ?", posterID).Delete(&models.Job{}).Error
}

func (r *PostgresJobRepository) CreateApplication(application *models.JobApplication) error {
	return r.db.Create(application).Error
}

func (r *PostgresJobRepository) GetApplication(jobID, userID uint) (*models.JobApplication, error) {
	var application models.JobApplication
	err := r.db.Where("job_id = ? AND user_id = ?", jobID, userID).First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *PostgresJobRepository) DeleteApplication(jobID, userID uint) error {
	res := r.db.Unscoped().Where("job_id = ? AND user_id = ?", jobID, userID).Delete(&models.JobApplication{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresJobRepository) GetApplicationsByUserID(userID uint) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := r.db.Where("user_id = ?", userID).Find(&applications).Error
	return applications, err
}

func (r *PostgresJobRepository) DeleteApplicationsByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.JobApplication{}).Error
}

func (r *PostgresJobRepository) CountApplications(jobID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.JobApplication{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

// AdjustApplicantCount applies a signed delta to applicant_count, never
// letting it go below zero.
func (r *PostgresJobRepository) AdjustApplicantCount(jobID uint, delta int) error {
	return adjustCounter(r.db, &models.Job{}, jobID, "applicant_count", delta)
}
