package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/cache"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

type formFieldInput struct {
	Label             string           `json:"label" validate:"required,min=1,max=200"`
	FieldType         string           `json:"fieldType" validate:"required,oneof=text email phone number dropdown multiSelect date file textarea checkbox radio"`
	IsRequired        bool             `json:"isRequired"`
	Options           string           `json:"options"`
	Placeholder       string           `json:"placeholder"`
	ValidationPattern string           `json:"validationPattern"`
	HelpText          string           `json:"helpText"`
	Order             int              `json:"order"`
	MinLength         *int             `json:"minLength"`
	MaxLength         *int             `json:"maxLength"`
	MinValue          *decimal.Decimal `json:"minValue"`
	MaxValue          *decimal.Decimal `json:"maxValue"`
}

type createApplicationRequest struct {
	Title               string           `json:"title" validate:"required,min=3,max=200"`
	Description         string           `json:"description" validate:"required"`
	Category            string           `json:"category" validate:"required,oneof=Government Education Healthcare Finance Legal Other"`
	ImageURL            string           `json:"imageUrl" validate:"omitempty,url"`
	TutorialURL         string           `json:"tutorialUrl" validate:"omitempty,url"`
	RedirectURL         string           `json:"redirectUrl" validate:"required,url"`
	AllowDocumentUpload *bool            `json:"allowDocumentUpload"`
	ProcessingFee       *decimal.Decimal `json:"processingFee"`
	EstimatedTime       *int             `json:"estimatedTime" validate:"omitempty,min=1"`
	Priority            int              `json:"priority" validate:"min=0,max=10"`
	Tags                string           `json:"tags"`
	Requirements        string           `json:"requirements"`
	FormFields          []formFieldInput `json:"formFields" validate:"dive"`
}

type updateApplicationRequest struct {
	Title               *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description         *string          `json:"description"`
	Category            *string          `json:"category" validate:"omitempty,oneof=Government Education Healthcare Finance Legal Other"`
	ImageURL            *string          `json:"imageUrl" validate:"omitempty,url"`
	TutorialURL         *string          `json:"tutorialUrl" validate:"omitempty,url"`
	RedirectURL         *string          `json:"redirectUrl" validate:"omitempty,url"`
	AllowDocumentUpload *bool            `json:"allowDocumentUpload"`
	ProcessingFee       *decimal.Decimal `json:"processingFee"`
	EstimatedTime       *int             `json:"estimatedTime" validate:"omitempty,min=1"`
	IsActive            *bool            `json:"isActive"`
	Priority            *int             `json:"priority" validate:"omitempty,min=0,max=10"`
	Tags                *string          `json:"tags"`
	Requirements        *string          `json:"requirements"`
	FormFields          []formFieldInput `json:"formFields" validate:"omitempty,dive"`
}

type updateStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=pending inProgress completed rejected"`
	AdminNotes      string `json:"adminNotes"`
	RejectionReason string `json:"rejectionReason"`
}

type updateUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type verifyDocumentRequest struct {
	IsVerified      *bool  `json:"isVerified" validate:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// HandleAdminDashboard returns the headline counters and recent activity.
func HandleAdminDashboard(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	totalUsers, err := repos.User.CountByRole(models.ROLE_USER)
	if err != nil {
		return err
	}
	activeApplications, err := repos.Application.CountActive()
	if err != nil {
		return err
	}
	totalSubmissions, err := repos.UserApplication.Count()
	if err != nil {
		return err
	}
	pendingSubmissions, err := repos.UserApplication.CountByStatus(models.SUBMISSION_STATUS_PENDING)
	if err != nil {
		return err
	}
	completedSubmissions, err := repos.UserApplication.CountByStatus(models.SUBMISSION_STATUS_COMPLETED)
	if err != nil {
		return err
	}
	totalRevenue, err := repos.Payment.SumCompleted()
	if err != nil {
		return err
	}

	monthAgo := time.Now().AddDate(0, -1, 0)
	newUsersThisMonth, err := repos.User.CountByRoleSince(models.ROLE_USER, monthAgo)
	if err != nil {
		return err
	}
	submissionsThisMonth, err := repos.UserApplication.CountSince(monthAgo)
	if err != nil {
		return err
	}

	recentSubmissions, err := repos.UserApplication.Recent(10)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"stats": fiber.Map{
			"totalUsers":           totalUsers,
			"activeApplications":   activeApplications,
			"totalSubmissions":     totalSubmissions,
			"pendingSubmissions":   pendingSubmissions,
			"completedSubmissions": completedSubmissions,
			"totalRevenue":         totalRevenue,
			"newUsersThisMonth":    newUsersThisMonth,
			"submissionsThisMonth": submissionsThisMonth,
		},
		"recentSubmissions": recentSubmissions,
	})
}

// HandleAdminListApplications lists catalog entries including inactive ones.
func HandleAdminListApplications(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "createdAt")
	category := c.Query("category")
	isActive := parseBoolQuery(c, "isActive")

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	applications, total, err := repo.ListAll(category, isActive, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"applications": applications,
		"pagination":   newPagination(page, opts, total),
	})
}

// HandleAdminCreateApplication creates a catalog entry with its form fields.
func HandleAdminCreateApplication(c *fiber.Ctx) error {
	var req createApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	application := &models.Application{
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		ImageURL:            req.ImageURL,
		TutorialURL:         req.TutorialURL,
		RedirectURL:         req.RedirectURL,
		AllowDocumentUpload: true,
		ProcessingFee:       req.ProcessingFee,
		EstimatedTime:       req.EstimatedTime,
		IsActive:            true,
		Priority:            req.Priority,
		Tags:                req.Tags,
		Requirements:        req.Requirements,
		CreatedBy:           usercontext.GetUserID(c),
		FormFields:          buildFormFields(req.FormFields),
	}
	if req.AllowDocumentUpload != nil {
		application.AllowDocumentUpload = *req.AllowDocumentUpload
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	if err := repo.Create(application); err != nil {
		return err
	}

	invalidateCategoriesCache()

	return success(c, fiber.StatusCreated, "Application created successfully",
		fiber.Map{"application": application})
}

// HandleAdminGetApplication returns one catalog entry, active or not.
func HandleAdminGetApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	application, err := repo.GetByID(id)
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"application": application})
}

// HandleAdminUpdateApplication applies a partial update and optionally
// replaces the form field schema.
func HandleAdminUpdateApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req updateApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	application, err := repo.GetByID(id)
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}

	applyApplicationUpdate(application, &req)
	if err := repo.Update(application); err != nil {
		return err
	}

	if req.FormFields != nil {
		if err := repo.ReplaceFormFields(application.ID, buildFormFields(req.FormFields)); err != nil {
			return err
		}
	}

	invalidateCategoriesCache()

	application, err = repo.GetByID(id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Application updated successfully",
		fiber.Map{"application": application})
}

// HandleAdminDeleteApplication deactivates a catalog entry. Submissions
// against it are kept.
func HandleAdminDeleteApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	if _, err := repo.GetByID(id); err != nil {
		return apperror.NewNotFound("Application not found")
	}
	if err := repo.SoftDelete(id); err != nil {
		return err
	}

	invalidateCategoriesCache()

	return success(c, fiber.StatusOK, "Application deleted successfully", nil)
}

// HandleAdminListUserApplications lists all submissions across users.
func HandleAdminListUserApplications(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "submittedAt")
	status := c.Query("status")
	submissionType := c.Query("submissionType")

	repo := repository.GetGlobalFactory().GetUserApplicationRepository()
	userApplications, total, err := repo.ListAll(status, submissionType, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"userApplications": userApplications,
		"pagination":       newPagination(page, opts, total),
	})
}

// HandleAdminGetUserApplication returns one submission regardless of owner.
func HandleAdminGetUserApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserApplicationRepository()
	userApplication, err := repo.GetDetailByID(id)
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"userApplication": userApplication})
}

// HandleAdminUpdateUserApplicationStatus moves a submission through its lifecycle.
func HandleAdminUpdateUserApplicationStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	userApplication, err := submissionService.UpdateStatus(id, req.Status, req.AdminNotes, req.RejectionReason)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Application status updated successfully",
		fiber.Map{"userApplication": userApplication})
}

// HandleAdminListUsers lists accounts with optional role and activity filters.
func HandleAdminListUsers(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "createdAt")
	role := c.Query("role")
	isActive := parseBoolQuery(c, "isActive")

	repo := repository.GetGlobalFactory().GetUserRepository()
	users, total, err := repo.List(role, isActive, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"users":      users,
		"pagination": newPagination(page, opts, total),
	})
}

// HandleAdminGetUser returns one account.
func HandleAdminGetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		return apperror.NewNotFound("User not found")
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

// HandleAdminUpdateUserStatus activates or deactivates an account.
// Admins cannot deactivate themselves.
func HandleAdminUpdateUserStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if id == usercontext.GetUserID(c) {
		return apperror.NewBadRequest("You cannot change your own account status")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		return apperror.NewNotFound("User not found")
	}

	user.IsActive = *req.IsActive
	if err := repo.Update(user); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "User status updated successfully", fiber.Map{"user": user})
}

// HandleAdminAnalyticsOverview returns signup and submission trends.
func HandleAdminAnalyticsOverview(c *fiber.Ctx) error {
	since := analyticsSince(c)
	repos := repository.GetGlobalRepositories()

	dailySignups, err := repos.User.DailySignups(models.ROLE_USER, since)
	if err != nil {
		return err
	}
	dailySubmissions, err := repos.UserApplication.DailySubmissions(since)
	if err != nil {
		return err
	}
	statusDistribution, err := repos.UserApplication.StatusDistribution()
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"dailySignups":       dailySignups,
		"dailySubmissions":   dailySubmissions,
		"statusDistribution": statusDistribution,
	})
}

// HandleAdminAnalyticsApplications returns catalog usage analytics.
func HandleAdminAnalyticsApplications(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	categoryCounts, err := repos.Application.CategoryCounts()
	if err != nil {
		return err
	}
	popularApplications, err := repos.UserApplication.PopularApplications(10)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"categoryCounts":      categoryCounts,
		"popularApplications": popularApplications,
	})
}

// HandleAdminAnalyticsPayments returns revenue analytics.
func HandleAdminAnalyticsPayments(c *fiber.Ctx) error {
	since := analyticsSince(c)
	repos := repository.GetGlobalRepositories()

	totalRevenue, err := repos.Payment.SumCompleted()
	if err != nil {
		return err
	}
	averagePayment, err := repos.Payment.AverageCompleted()
	if err != nil {
		return err
	}
	revenueByDay, err := repos.Payment.RevenueByDay(since)
	if err != nil {
		return err
	}
	gatewayDistribution, err := repos.Payment.GatewayDistribution()
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"totalRevenue":        totalRevenue,
		"averagePayment":      averagePayment,
		"revenueByDay":        revenueByDay,
		"gatewayDistribution": gatewayDistribution,
	})
}

// HandleAdminVerifyDocument marks a document verified or rejected.
func HandleAdminVerifyDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req verifyDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetDocumentRepository()
	document, err := repo.GetByID(id)
	if err != nil {
		return apperror.NewNotFound("Document not found")
	}

	adminID := usercontext.GetUserID(c)
	now := time.Now()
	document.IsVerified = *req.IsVerified
	document.VerifiedBy = &adminID
	document.VerifiedAt = &now
	if document.IsVerified {
		document.RejectionReason = ""
	} else {
		document.RejectionReason = req.RejectionReason
	}
	if err := repo.Update(document); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Document verification updated successfully",
		fiber.Map{"document": document})
}

func buildFormFields(inputs []formFieldInput) []models.FormField {
	fields := make([]models.FormField, 0, len(inputs))
	for i, in := range inputs {
		order := in.Order
		if order == 0 {
			order = i
		}
		fields = append(fields, models.FormField{
			Label:             in.Label,
			FieldType:         in.FieldType,
			IsRequired:        in.IsRequired,
			Options:           in.Options,
			Placeholder:       in.Placeholder,
			ValidationPattern: in.ValidationPattern,
			HelpText:          in.HelpText,
			Order:             order,
			MinLength:         in.MinLength,
			MaxLength:         in.MaxLength,
			MinValue:          in.MinValue,
			MaxValue:          in.MaxValue,
		})
	}
	return fields
}

func applyApplicationUpdate(application *models.Application, req *updateApplicationRequest) {
	if req.Title != nil {
		application.Title = *req.Title
	}
	if req.Description != nil {
		application.Description = *req.Description
	}
	if req.Category != nil {
		application.Category = *req.Category
	}
	if req.ImageURL != nil {
		application.ImageURL = *req.ImageURL
	}
	if req.TutorialURL != nil {
		application.TutorialURL = *req.TutorialURL
	}
	if req.RedirectURL != nil {
		application.RedirectURL = *req.RedirectURL
	}
	if req.AllowDocumentUpload != nil {
		application.AllowDocumentUpload = *req.AllowDocumentUpload
	}
	if req.ProcessingFee != nil {
		application.ProcessingFee = req.ProcessingFee
	}
	if req.EstimatedTime != nil {
		application.EstimatedTime = req.EstimatedTime
	}
	if req.IsActive != nil {
		application.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		application.Priority = *req.Priority
	}
	if req.Tags != nil {
		application.Tags = *req.Tags
	}
	if req.Requirements != nil {
		application.Requirements = *req.Requirements
	}
}

func analyticsSince(c *fiber.Ctx) time.Time {
	days := c.QueryInt("days", 30)
	if days < 1 || days > 365 {
		days = 30
	}
	return time.Now().AddDate(0, 0, -days)
}

func parseBoolQuery(c *fiber.Ctx, name string) *bool {
	switch c.Query(name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func invalidateCategoriesCache() {
	if err := cache.Delete(categoriesCacheKey); err != nil {
		log.Printf("failed to invalidate categories cache: %v", err)
	}
}
