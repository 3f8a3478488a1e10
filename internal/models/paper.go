package models

import "gorm.io/gorm"

// Paper represents an academic paper shared on the network (PostgreSQL)
type Paper struct {
	gorm.Model
	UploaderID uint   `json:"uploader_id" gorm:"index"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract,omitempty"`
	Venue      string `json:"venue,omitempty"`
	Year       int    `json:"year,omitempty"`
	PDFLink    string `json:"pdf_link,omitempty"`
	DOI        string `json:"doi,omitempty" gorm:"index"`
}

// PaperAuthor links a user to a paper, ordered by Position. Unique per
// (paper, user).
type PaperAuthor struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	PaperID  uint `json:"paper_id" gorm:"index;uniqueIndex:idx_paper_author"`
	UserID   uint `json:"user_id" gorm:"index;uniqueIndex:idx_paper_author"`
	Position int  `json:"position" gorm:"default:0"`
}

// CreatePaperRequest defines the request body for publishing a paper
type CreatePaperRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=300"`
	Abstract  string `json:"abstract,omitempty" validate:"omitempty,max=5000"`
	Venue     string `json:"venue,omitempty" validate:"omitempty,max=200"`
	Year      int    `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	PDFLink   string `json:"pdf_link,omitempty" validate:"omitempty,url"`
	DOI       string `json:"doi,omitempty" validate:"omitempty,max=100"`
	AuthorIDs []uint `json:"author_ids,omitempty"`
}
