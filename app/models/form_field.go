package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FormField is one typed, ordered input definition belonging to an Application.
type FormField struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	ApplicationID     uint             `gorm:"index" json:"application_id"`
	Label             string           `gorm:"type:varchar(200)" json:"label" validate:"required,min=1,max=200"`
	FieldType         string           `gorm:"type:varchar(20)" json:"field_type" validate:"required,oneof=text email phone number dropdown multiSelect date file textarea checkbox radio"`
	IsRequired        bool             `gorm:"default:false" json:"is_required"`
	Options           string           `gorm:"type:text" json:"options"`
	Placeholder       string           `gorm:"type:varchar(255);default:null" json:"placeholder"`
	ValidationPattern string           `gorm:"type:varchar(255);default:null" json:"validation_pattern"`
	HelpText          string           `gorm:"type:text" json:"help_text"`
	Order             int              `gorm:"column:field_order;default:0;index" json:"order"`
	MinLength         *int             `gorm:"default:null" json:"min_length"`
	MaxLength         *int             `gorm:"default:null" json:"max_length"`
	MinValue          *decimal.Decimal `gorm:"type:decimal(10,2);default:null" json:"min_value"`
	MaxValue          *decimal.Decimal `gorm:"type:decimal(10,2);default:null" json:"max_value"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *FormField) Validate() error {
	v := validator.New()

	return v.Struct(f)
}
