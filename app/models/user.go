package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Name                   string     `gorm:"type:varchar(100)" json:"name" validate:"required,min=2,max=100"`
	Email                  string     `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password               string     `gorm:"type:text" json:"-" validate:"required,min=6"`
	Phone                  string     `gorm:"type:varchar(30);default:null" json:"phone" validate:"max=30"`
	ProfileImage           string     `gorm:"type:varchar(255);default:null" json:"profile_image"`
	Role                   string     `gorm:"type:varchar(20);default:'user'" json:"role" validate:"oneof=user admin"`
	IsActive               bool       `gorm:"default:true" json:"is_active"`
	EmailVerified          bool       `gorm:"default:false" json:"email_verified"`
	EmailVerificationToken string     `gorm:"type:varchar(100);index" json:"-"`
	PasswordResetToken     string     `gorm:"type:varchar(100);index" json:"-"`
	PasswordResetExpires   *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	LastLogin              *time.Time `gorm:"type:timestamp;default:null" json:"last_login"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, password string, phone string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: pw,
		Phone:    phone,
		Role:     ROLE_USER,
		IsActive: true,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// GenerateEmailVerificationToken creates a random token for email verification
func (u *User) GenerateEmailVerificationToken() error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	u.EmailVerificationToken = token
	return nil
}

// GeneratePasswordResetToken creates a random reset token valid for 10 minutes
func (u *User) GeneratePasswordResetToken() error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	u.PasswordResetToken = token
	expires := time.Now().Add(10 * time.Minute)
	u.PasswordResetExpires = &expires
	return nil
}

// IsPasswordResetTokenValid checks the reset token and its expiry
func (u *User) IsPasswordResetTokenValid(token string) bool {
	if u.PasswordResetToken == "" || u.PasswordResetExpires == nil {
		return false
	}
	if u.PasswordResetToken != token {
		return false
	}
	return time.Now().Before(*u.PasswordResetExpires)
}

// ClearPasswordResetRequest clears all password reset related fields
func (u *User) ClearPasswordResetRequest() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
