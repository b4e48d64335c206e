package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
)

// ListOptions carries the shared pagination and sorting inputs.
type ListOptions struct {
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

// DailyStat is one time-bucketed count row.
type DailyStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CategoryStat is one per-category count row.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusStat is one per-status count row.
type StatusStat struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// RevenueStat is one day of completed payment revenue.
type RevenueStat struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int64           `json:"transactions"`
}

// GatewayStat is the completed payment distribution for one gateway.
type GatewayStat struct {
	PaymentGateway string          `json:"payment_gateway"`
	Count          int64           `json:"count"`
	Total          decimal.Decimal `json:"total"`
}

// PopularApplication is one most-submitted catalog entry.
type PopularApplication struct {
	ApplicationID   uint   `json:"application_id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	SubmissionCount int64  `json:"submission_count"`
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByEmailVerificationToken(token string) (*models.User, error)
	GetByPasswordResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	List(role string, isActive *bool, opts ListOptions) ([]models.User, int64, error)
	CountByRole(role string) (int64, error)
	CountByRoleSince(role string, since time.Time) (int64, error)
	DailySignups(role string, since time.Time) ([]DailyStat, error)
}

// ApplicationRepository defines the interface for catalog operations
type ApplicationRepository interface {
	Create(application *models.Application) error
	GetByID(id uint) (*models.Application, error)
	GetActiveByID(id uint) (*models.Application, error)
	ListActive(category string, opts ListOptions) ([]models.Application, int64, error)
	Search(query, category string, opts ListOptions) ([]models.Application, int64, error)
	ListAll(category string, isActive *bool, opts ListOptions) ([]models.Application, int64, error)
	Categories() ([]string, error)
	Update(application *models.Application) error
	ReplaceFormFields(applicationID uint, fields []models.FormField) error
	SoftDelete(id uint) error
	CountActive() (int64, error)
	CategoryCounts() ([]CategoryStat, error)
}

// UserApplicationRepository defines the interface for submission operations
type UserApplicationRepository interface {
	Create(userApplication *models.UserApplication) error
	GetByID(id uint) (*models.UserApplication, error)
	GetDetailByID(id uint) (*models.UserApplication, error)
	GetByIDAndUser(id, userID uint) (*models.UserApplication, error)
	GetDetailByIDAndUser(id, userID uint) (*models.UserApplication, error)
	GetByUserAndApplication(userID, applicationID uint) (*models.UserApplication, error)
	ListByUser(userID uint, status string, opts ListOptions) ([]models.UserApplication, int64, error)
	ListAll(status, submissionType string, opts ListOptions) ([]models.UserApplication, int64, error)
	Update(userApplication *models.UserApplication) error
	Delete(id uint) error
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	CountSince(since time.Time) (int64, error)
	Recent(limit int) ([]models.UserApplication, error)
	DailySubmissions(since time.Time) ([]DailyStat, error)
	StatusDistribution() ([]StatusStat, error)
	PopularApplications(limit int) ([]PopularApplication, error)
}

// PaymentRepository defines the interface for payment-related operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByIDAndUser(id, userID uint) (*models.Payment, error)
	GetPendingByIDAndUser(id, userID uint) (*models.Payment, error)
	Update(payment *models.Payment) error
	CompletedExistsForUserApplication(userApplicationID uint) (bool, error)
	MarkCompleted(payment *models.Payment, userApplicationID uint) error
	ListByUser(userID uint, status string, opts ListOptions) ([]models.Payment, int64, error)
	SumCompleted() (decimal.Decimal, error)
	AverageCompleted() (decimal.Decimal, error)
	RevenueByDay(since time.Time) ([]RevenueStat, error)
	GatewayDistribution() ([]GatewayStat, error)
}

// DocumentRepository defines the interface for document-related operations
type DocumentRepository interface {
	Create(document *models.Document) error
	GetByID(id uint) (*models.Document, error)
	ListByUserApplication(userApplicationID uint) ([]models.Document, error)
	Update(document *models.Document) error
	Delete(id uint) error
}

// Repositories groups all repository instances
type Repositories struct {
	User            UserRepository
	Application     ApplicationRepository
	UserApplication UserApplicationRepository
	Payment         PaymentRepository
	Document        DocumentRepository
}

// NewRepositories creates all repositories from a shared database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Application:     NewApplicationRepository(db),
		UserApplication: NewUserApplicationRepository(db),
		Payment:         NewPaymentRepository(db),
		Document:        NewDocumentRepository(db),
	}
}
