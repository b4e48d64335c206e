package models

import "time"

// Document is one uploaded file tied to a UserApplication.
type Document struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserApplicationID uint       `gorm:"index" json:"user_application_id"`
	FileName          string     `gorm:"type:varchar(255)" json:"file_name"`
	OriginalName      string     `gorm:"type:varchar(255)" json:"original_name"`
	MimeType          string     `gorm:"type:varchar(100)" json:"mime_type"`
	FileSize          int64      `json:"file_size"`
	FileURL           string     `gorm:"type:varchar(255)" json:"file_url"`
	DocumentType      string     `gorm:"type:varchar(100);default:null" json:"document_type"`
	IsVerified        bool       `gorm:"default:false;index" json:"is_verified"`
	VerifiedBy        *uint      `gorm:"default:null" json:"verified_by"`
	VerifiedAt        *time.Time `gorm:"type:timestamp;default:null" json:"verified_at"`
	RejectionReason   string     `gorm:"type:text" json:"rejection_reason"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Verifier *User `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
}
