package repository

import (
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// documentRepository implements the DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository instance
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create records an uploaded file
func (r *documentRepository) Create(document *models.Document) error {
	return r.db.Create(document).Error
}

// GetByID retrieves a document by id
func (r *documentRepository) GetByID(id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// ListByUserApplication retrieves all documents of a submission
func (r *documentRepository) ListByUserApplication(userApplicationID uint) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.Where("user_application_id = ?", userApplicationID).
		Order("created_at ASC").
		Find(&documents).Error
	return documents, err
}

// Update saves a document record
func (r *documentRepository) Update(document *models.Document) error {
	return r.db.Save(document).Error
}

// Delete removes a document record
func (r *documentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Document{}, id).Error
}
