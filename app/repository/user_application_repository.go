package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// userApplicationSortFields whitelists submission listing sort columns.
var userApplicationSortFields = map[string]string{
	"submittedAt": "submitted_at",
	"status":      "status",
	"createdAt":   "created_at",
}

// userApplicationRepository implements the UserApplicationRepository interface
type userApplicationRepository struct {
	db *gorm.DB
}

// NewUserApplicationRepository creates a new submission repository instance
func NewUserApplicationRepository(db *gorm.DB) UserApplicationRepository {
	return &userApplicationRepository{db: db}
}

// Create inserts a new submission. A duplicate (user, application) pair
// surfaces as a unique constraint violation.
func (r *userApplicationRepository) Create(userApplication *models.UserApplication) error {
	return r.db.Create(userApplication).Error
}

// GetByID retrieves a submission by id
func (r *userApplicationRepository) GetByID(id uint) (*models.UserApplication, error) {
	var userApplication models.UserApplication
	err := r.db.First(&userApplication, id).Error
	if err != nil {
		return nil, err
	}
	return &userApplication, nil
}

// GetDetailByID retrieves a submission with all relations for the admin view
func (r *userApplicationRepository) GetDetailByID(id uint) (*models.UserApplication, error) {
	var userApplication models.UserApplication
	err := r.db.Preload("User").
		Preload("Application").
		Preload("Application.FormFields", orderedFormFields).
		Preload("Payment").
		Preload("Documents").
		First(&userApplication, id).Error
	if err != nil {
		return nil, err
	}
	return &userApplication, nil
}

// GetByIDAndUser retrieves a submission owned by the given user
func (r *userApplicationRepository) GetByIDAndUser(id, userID uint) (*models.UserApplication, error) {
	var userApplication models.UserApplication
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&userApplication).Error
	if err != nil {
		return nil, err
	}
	return &userApplication, nil
}

// GetDetailByIDAndUser retrieves an owned submission with all relations
func (r *userApplicationRepository) GetDetailByIDAndUser(id, userID uint) (*models.UserApplication, error) {
	var userApplication models.UserApplication
	err := r.db.Preload("Application").
		Preload("Application.FormFields", orderedFormFields).
		Preload("Payment").
		Preload("Documents").
		Where("id = ? AND user_id = ?", id, userID).
		First(&userApplication).Error
	if err != nil {
		return nil, err
	}
	return &userApplication, nil
}

// GetByUserAndApplication retrieves the submission for a (user, application) pair
func (r *userApplicationRepository) GetByUserAndApplication(userID, applicationID uint) (*models.UserApplication, error) {
	var userApplication models.UserApplication
	err := r.db.Where("user_id = ? AND application_id = ?", userID, applicationID).
		First(&userApplication).Error
	if err != nil {
		return nil, err
	}
	return &userApplication, nil
}

// ListByUser retrieves a user's submissions with pagination and status filter
func (r *userApplicationRepository) ListByUser(userID uint, status string, opts ListOptions) ([]models.UserApplication, int64, error) {
	query := r.db.Model(&models.UserApplication{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userApplications []models.UserApplication
	err := query.Preload("Application").
		Preload("Payment").
		Preload("Documents").
		Order(orderClause(userApplicationSortFields, opts, "submitted_at")).
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&userApplications).Error
	return userApplications, total, err
}

// ListAll retrieves submissions across all users for the admin view
func (r *userApplicationRepository) ListAll(status, submissionType string, opts ListOptions) ([]models.UserApplication, int64, error) {
	query := r.db.Model(&models.UserApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if submissionType != "" {
		query = query.Where("submission_type = ?", submissionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userApplications []models.UserApplication
	err := query.Preload("User").
		Preload("Application").
		Preload("Payment").
		Preload("Documents").
		Order(orderClause(userApplicationSortFields, opts, "submitted_at")).
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&userApplications).Error
	return userApplications, total, err
}

// Update saves a submission
func (r *userApplicationRepository) Update(userApplication *models.UserApplication) error {
	return r.db.Save(userApplication).Error
}

// Delete hard deletes a submission. Catalog entries soft delete; submissions
// do not.
func (r *userApplicationRepository) Delete(id uint) error {
	return r.db.Delete(&models.UserApplication{}, id).Error
}

// Count returns the total number of submissions
func (r *userApplicationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.UserApplication{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of submissions in the given state
func (r *userApplicationRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserApplication{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountSince returns the number of submissions created after the given time
func (r *userApplicationRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserApplication{}).
		Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// Recent returns the newest submissions with their user and catalog entry
func (r *userApplicationRepository) Recent(limit int) ([]models.UserApplication, error) {
	var userApplications []models.UserApplication
	err := r.db.Preload("User").
		Preload("Application").
		Order("created_at DESC").
		Limit(limit).
		Find(&userApplications).Error
	return userApplications, err
}

// DailySubmissions returns day-bucketed submission counts since the given time
func (r *userApplicationRepository) DailySubmissions(since time.Time) ([]DailyStat, error) {
	var stats []DailyStat
	err := r.db.Model(&models.UserApplication{}).
		Select("DATE(submitted_at) AS date, COUNT(id) AS count").
		Where("submitted_at >= ?", since).
		Group("DATE(submitted_at)").
		Order("DATE(submitted_at) ASC").
		Scan(&stats).Error
	return stats, err
}

// StatusDistribution returns per-status submission counts
func (r *userApplicationRepository) StatusDistribution() ([]StatusStat, error) {
	var stats []StatusStat
	err := r.db.Model(&models.UserApplication{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&stats).Error
	return stats, err
}

// PopularApplications returns the most-submitted catalog entries
func (r *userApplicationRepository) PopularApplications(limit int) ([]PopularApplication, error) {
	var stats []PopularApplication
	err := r.db.Model(&models.UserApplication{}).
		Select("applications.id AS application_id, applications.title, applications.category, COUNT(user_applications.id) AS submission_count").
		Joins("JOIN applications ON applications.id = user_applications.application_id").
		Group("applications.id, applications.title, applications.category").
		Order("submission_count DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}
