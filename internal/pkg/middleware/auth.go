package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/token"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

// RequireAuth authenticates requests carrying a bearer access token and loads
// the user into the request context.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			return apperror.NewUnauthorized("Access token is required")
		}

		claims, err := token.VerifyAccessToken(tokenString)
		if err != nil {
			return err
		}

		repo := repository.GetGlobalFactory().GetUserRepository()
		user, err := repo.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewUnauthorized("User no longer exists")
			}
			log.Printf("auth middleware: user lookup failed: %v", err)
			return apperror.NewInternal("Authentication failed")
		}

		if !user.IsActive {
			return apperror.NewUnauthorized("Your account has been deactivated. Please contact support.")
		}

		userCtx := usercontext.UserContext{
			UserID:     user.ID,
			Name:       user.Name,
			Email:      user.Email,
			IsLoggedIn: true,
			IsAdmin:    user.Role == models.ROLE_ADMIN,
		}
		c.Locals(usercontext.KeyUserContext, userCtx)
		c.Locals(usercontext.KeyFromProtected, true)
		c.Locals(usercontext.KeyUserID, user.ID)
		c.Locals(usercontext.KeyUserEmail, user.Email)
		c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

		return c.Next()
	}
}

// RequireAdmin ensures the authenticated user carries the admin role. Must be
// installed after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsAdmin(c) {
			return apperror.NewForbidden("Admin access required")
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
