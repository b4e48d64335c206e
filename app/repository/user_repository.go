package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// userSortFields whitelists admin user listing sort columns.
var userSortFields = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"lastLogin": "last_login",
}

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmailVerificationToken retrieves a user by their verification token
func (r *userRepository) GetByEmailVerificationToken(token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("email_verification_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPasswordResetToken retrieves a user by an unexpired reset token
func (r *userRepository) GetByPasswordResetToken(token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("password_reset_token = ? AND password_reset_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List retrieves a filtered, paginated page of users plus the total count
func (r *userRepository) List(role string, isActive *bool, opts ListOptions) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Order(orderClause(userSortFields, opts, "created_at")).
		Offset(opts.Offset).Limit(opts.Limit).Find(&users).Error
	return users, total, err
}

// CountByRole returns the number of users with the given role
func (r *userRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// CountByRoleSince returns the number of users created after the given time
func (r *userRepository) CountByRoleSince(role string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("role = ? AND created_at >= ?", role, since).Count(&count).Error
	return count, err
}

// DailySignups returns day-bucketed registration counts since the given time
func (r *userRepository) DailySignups(role string, since time.Time) ([]DailyStat, error) {
	var stats []DailyStat
	err := r.db.Model(&models.User{}).
		Select("DATE(created_at) AS date, COUNT(id) AS count").
		Where("role = ? AND created_at >= ?", role, since).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&stats).Error
	return stats, err
}
