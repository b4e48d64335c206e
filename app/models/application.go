package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Valid catalog categories, mirrored by the validator tag on Category.
const (
	CATEGORY_GOVERNMENT = "Government"
	CATEGORY_EDUCATION  = "Education"
	CATEGORY_HEALTHCARE = "Healthcare"
	CATEGORY_FINANCE    = "Finance"
	CATEGORY_LEGAL      = "Legal"
	CATEGORY_OTHER      = "Other"
)

// Application is a catalog entry describing an external process users can
// apply for, together with its dynamic form field schema.
type Application struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	Title               string           `gorm:"type:varchar(200)" json:"title" validate:"required,min=3,max=200"`
	Description         string           `gorm:"type:text" json:"description" validate:"required"`
	Category            string           `gorm:"type:varchar(50);index" json:"category" validate:"required,oneof=Government Education Healthcare Finance Legal Other"`
	ImageURL            string           `gorm:"type:varchar(255);default:null" json:"image_url" validate:"omitempty,url"`
	TutorialURL         string           `gorm:"type:varchar(255);default:null" json:"tutorial_url" validate:"omitempty,url"`
	RedirectURL         string           `gorm:"type:varchar(255)" json:"redirect_url" validate:"required,url"`
	AllowDocumentUpload bool             `gorm:"default:true" json:"allow_document_upload"`
	ProcessingFee       *decimal.Decimal `gorm:"type:decimal(10,2);default:null" json:"processing_fee"`
	EstimatedTime       *int             `gorm:"default:null" json:"estimated_time" validate:"omitempty,min=1"`
	IsActive            bool             `gorm:"default:true;index" json:"is_active"`
	Priority            int              `gorm:"default:0;index" json:"priority" validate:"min=0,max=10"`
	Tags                string           `gorm:"type:text" json:"tags"`
	Requirements        string           `gorm:"type:text" json:"requirements"`
	CreatedBy           uint             `gorm:"index" json:"created_by"`
	CreatedAt           time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	FormFields []FormField `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"form_fields,omitempty"`
	Creator    *User       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (a *Application) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// RequiresPayment reports whether a submission against this application
// carries a non-zero processing fee.
func (a *Application) RequiresPayment() bool {
	return a.ProcessingFee != nil && a.ProcessingFee.IsPositive()
}
