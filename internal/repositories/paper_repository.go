package repositories

import (
	"github.com/campuslink/backend/internal/models"
	"gorm.io/gorm"
)

// PaperRepository defines the interface for paper data operations
type PaperRepository interface {
	CreatePaper(paper *models.Paper) error
	GetPaperByID(id uint) (*models.Paper, error)
	GetPapers(page, limit int) ([]models.Paper, int64, error)
	GetPapersByUploaderID(uploaderID uint) ([]models.Paper, error)
	CreateAuthorLink(link *models.PaperAuthor) error
	GetAuthorLink(paperID, userID uint) (*models.PaperAuthor, error)
	GetAuthorLinksByPaperID(paperID uint) ([]models.PaperAuthor, error)
	DeleteAuthorLinksByUserID(userID uint) error
	DeleteAuthorLinksByPaperID(paperID uint) error
}

// PostgresPaperRepository implements PaperRepository for PostgreSQL
type PostgresPaperRepository struct {
	db *gorm.DB
}

// NewPostgresPaperRepository creates a new PostgresPaperRepository
func NewPostgresPaperRepository(db *gorm.DB) *PostgresPaperRepository {
	return &PostgresPaperRepository{db: db}
}

func (r *PostgresPaperRepository) CreatePaper(paper *models.Paper) error {
	return r.db.Create(paper).Error
}

func (r *PostgresPaperRepository) GetPaperByID(id uint) (*models.Paper, error) {
	var paper models.Paper
	if err := r.db.First(&paper, id).Error; err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *PostgresPaperRepository) GetPapers(page, limit int) ([]models.Paper, int64, error) {
	var papers []models.Paper
	var total int64

	if err := r.db.Model(&models.Paper{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&papers).Error
	return papers, total, err
}

func (r *PostgresPaperRepository) GetPapersByUploaderID(uploaderID uint) ([]models.Paper, error) {
	var papers []models.Paper
	err := r.db.Where("uploader_id = ?", uploaderID).Find(&papers).Error
	return papers, err
}

func (r *PostgresPaperRepository) CreateAuthorLink(link *models.PaperAuthor) error {
	return r.db.Create(link).Error
}

func (r *PostgresPaperRepository) GetAuthorLink(paperID, userID uint) (*models.PaperAuthor, error) {
	var link models.PaperAuthor
	if err := r.db.Where("paper_id = ? AND user_id = ?", paperID, userID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *PostgresPaperRepository) GetAuthorLinksByPaperID(paperID uint) ([]models.PaperAuthor, error) {
	var links []models.PaperAuthor
	err := r.db.Where("paper_id = ?", paperID).Order("position ASC").Find(&links).Error
	return links, err
}

func (r *PostgresPaperRepository) DeleteAuthorLinksByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PaperAuthor{}).Error
}

func (r *PostgresPaperRepository) DeleteAuthorLinksByPaperID(paperID uint) error {
	return r.db.Where("paper_id = ?", paperID).Delete(&models.PaperAuthor{}).Error
}
