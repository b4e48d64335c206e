package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// applicationSortFields whitelists catalog sort columns.
var applicationSortFields = map[string]string{
	"createdAt":     "created_at",
	"title":         "title",
	"priority":      "priority",
	"estimatedTime": "estimated_time",
}

// applicationRepository implements the ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new catalog repository instance
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a catalog entry together with its form fields
func (r *applicationRepository) Create(application *models.Application) error {
	return r.db.Create(application).Error
}

// GetByID retrieves a catalog entry regardless of active state
func (r *applicationRepository) GetByID(id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.Preload("FormFields", orderedFormFields).
		First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// GetActiveByID retrieves an active catalog entry with its creator
func (r *applicationRepository) GetActiveByID(id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.Preload("FormFields", orderedFormFields).
		Preload("Creator").
		Where("id = ? AND is_active = ?", id, true).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ListActive retrieves a paginated page of active catalog entries
func (r *applicationRepository) ListActive(category string, opts ListOptions) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{}).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.Preload("FormFields", orderedFormFields).
		Order(orderClause(applicationSortFields, opts, "created_at")).
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&applications).Error
	return applications, total, err
}

// Search matches active catalog entries against title, description and tags,
// ranked by priority then recency
func (r *applicationRepository) Search(query, category string, opts ListOptions) ([]models.Application, int64, error) {
	q := r.db.Model(&models.Application{}).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + trimmed + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := q.Preload("FormFields", orderedFormFields).
		Order("priority DESC, created_at DESC").
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&applications).Error
	return applications, total, err
}

// ListAll retrieves catalog entries for the admin view, inactive included
func (r *applicationRepository) ListAll(category string, isActive *bool, opts ListOptions) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.Preload("FormFields", orderedFormFields).
		Preload("Creator").
		Order(orderClause(applicationSortFields, opts, "created_at")).
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&applications).Error
	return applications, total, err
}

// Categories returns the distinct categories of active catalog entries
func (r *applicationRepository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&models.Application{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("category", &categories).Error
	return categories, err
}

// Update saves a catalog entry
func (r *applicationRepository) Update(application *models.Application) error {
	return r.db.Save(application).Error
}

// ReplaceFormFields swaps the full form field schema of a catalog entry
func (r *applicationRepository) ReplaceFormFields(applicationID uint, fields []models.FormField) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", applicationID).
			Delete(&models.FormField{}).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		for i := range fields {
			fields[i].ID = 0
			fields[i].ApplicationID = applicationID
		}
		return tx.Create(&fields).Error
	})
}

// SoftDelete deactivates a catalog entry instead of removing the row
func (r *applicationRepository) SoftDelete(id uint) error {
	return r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// CountActive returns the number of active catalog entries
func (r *applicationRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Application{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// CategoryCounts returns per-category counts over active catalog entries
func (r *applicationRepository) CategoryCounts() ([]CategoryStat, error) {
	var stats []CategoryStat
	err := r.db.Model(&models.Application{}).
		Select("category, COUNT(id) AS count").
		Where("is_active = ?", true).
		Group("category").
		Scan(&stats).Error
	return stats, err
}

func orderedFormFields(db *gorm.DB) *gorm.DB {
	return db.Order("form_fields.field_order ASC")
}
