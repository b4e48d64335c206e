package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/cache"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/env"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/mail"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/token"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"max=30"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type updateProfileRequest struct {
	Name         string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        string `json:"phone" validate:"max=30"`
	ProfileImage string `json:"profileImage" validate:"omitempty,url"`
}

// HandleRegister creates a new user account and sends the verification mail.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(req.Email); err == nil {
		return apperror.NewBadRequest("User with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		return err
	}
	if err := user.GenerateEmailVerificationToken(); err != nil {
		return err
	}
	if err := repo.Create(user); err != nil {
		return err
	}

	sendVerificationMail(user)

	accessToken, refreshToken, err := token.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated,
		"User registered successfully. Please check your email for verification.",
		fiber.Map{
			"user":         user,
			"token":        accessToken,
			"refreshToken": refreshToken,
		})
}

// HandleLogin authenticates a user and issues a token pair.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return apperror.NewUnauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return apperror.NewUnauthorized("Your account has been deactivated. Please contact support.")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := repo.Update(user); err != nil {
		return err
	}

	accessToken, refreshToken, err := token.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":         user,
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

// HandleLogout revokes the presented refresh token until it expires.
func HandleLogout(c *fiber.Ctx) error {
	var req refreshRequest
	// Body is optional: a logout without a refresh token is still a success.
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		if claims, err := token.VerifyRefreshToken(req.RefreshToken); err == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				if err := cache.Set(revokedTokenKey(req.RefreshToken), "1", ttl); err != nil {
					log.Printf("failed to revoke refresh token: %v", err)
				}
			}
		}
	}

	return success(c, fiber.StatusOK, "Logout successful", nil)
}

// HandleRefreshToken exchanges a valid refresh token for a new token pair.
func HandleRefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	revoked, err := cache.Exists(revokedTokenKey(req.RefreshToken))
	if err != nil {
		log.Printf("refresh token revocation lookup failed: %v", err)
	}
	if revoked {
		return apperror.NewUnauthorized("Invalid refresh token")
	}

	claims, err := token.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return apperror.NewUnauthorized("Invalid refresh token")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(claims.UserID)
	if err != nil || !user.IsActive {
		return apperror.NewUnauthorized("Invalid refresh token")
	}

	accessToken, refreshToken, err := token.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

// HandleForgotPassword issues a reset token and mails the reset link.
func HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("No user found with this email address")
		}
		return err
	}

	if err := user.GeneratePasswordResetToken(); err != nil {
		return err
	}
	if err := repo.Update(user); err != nil {
		return err
	}

	resetURL := env.GetEnv("FRONTEND_URL", "") + "/reset-password?token=" + user.PasswordResetToken
	if err := mail.SendPasswordResetMail(user.Email, mail.PasswordResetData{
		Name:     user.Name,
		ResetURL: resetURL,
	}); err != nil {
		// Unlike the other mails this one is the whole point of the request:
		// roll the token back and report the failure.
		user.ClearPasswordResetRequest()
		if uerr := repo.Update(user); uerr != nil {
			log.Printf("failed to clear reset token after mail failure: %v", uerr)
		}
		return apperror.NewInternal("Failed to send password reset email")
	}

	return success(c, fiber.StatusOK, "Password reset email sent successfully", nil)
}

// HandleResetPassword sets a new password from a valid, unexpired reset token.
func HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByPasswordResetToken(req.Token)
	if err != nil {
		return apperror.NewBadRequest("Invalid or expired reset token")
	}

	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	user.ClearPasswordResetRequest()
	if err := repo.Update(user); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Password reset successful", nil)
}

// HandleChangePassword changes the password of the authenticated user.
func HandleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return apperror.NewBadRequest("Current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := repo.Update(user); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Password changed successfully", nil)
}

// HandleVerifyEmail marks the account verified from the mailed token.
func HandleVerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmailVerificationToken(req.Token)
	if err != nil {
		return apperror.NewBadRequest("Invalid verification token")
	}

	user.EmailVerified = true
	user.EmailVerificationToken = ""
	if err := repo.Update(user); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Email verified successfully", nil)
}

// HandleResendVerification issues a fresh verification token and mails it.
func HandleResendVerification(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apperror.NewBadRequest("Email is already verified")
	}

	if err := user.GenerateEmailVerificationToken(); err != nil {
		return err
	}
	if err := repo.Update(user); err != nil {
		return err
	}

	sendVerificationMail(user)

	return success(c, fiber.StatusOK, "Verification email sent successfully", nil)
}

// HandleGetProfile returns the authenticated user.
func HandleGetProfile(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

// HandleUpdateProfile updates name, phone and profile image.
func HandleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}
	if err := repo.Update(user); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": user})
}

func sendVerificationMail(user *models.User) {
	verificationURL := env.GetEnv("FRONTEND_URL", "") + "/verify-email?token=" + user.EmailVerificationToken
	if err := mail.SendVerificationMail(user.Email, mail.VerificationData{
		Name:            user.Name,
		VerificationURL: verificationURL,
	}); err != nil {
		log.Printf("failed to send verification email: %v", err)
	}
}

func revokedTokenKey(refreshToken string) string {
	return "auth:revoked:" + refreshToken
}
