package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

type submitFormRequest struct {
	ApplicationID uint            `json:"applicationId" validate:"required,min=1"`
	FormData      json.RawMessage `json:"formData" validate:"required"`
}

type updateFormDataRequest struct {
	FormData json.RawMessage `json:"formData" validate:"required"`
}

// HandleListUserApplications lists the authenticated user's submissions.
func HandleListUserApplications(c *fiber.Ctx) error {
	opts, page := parseListOptions(c, "submittedAt")
	status := c.Query("status")

	repo := repository.GetGlobalFactory().GetUserApplicationRepository()
	userApplications, total, err := repo.ListByUser(usercontext.GetUserID(c), status, opts)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"userApplications": userApplications,
		"pagination":       newPagination(page, opts, total),
	})
}

// HandleGetUserApplication returns one submission owned by the caller.
func HandleGetUserApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserApplicationRepository()
	userApplication, err := repo.GetDetailByIDAndUser(id, usercontext.GetUserID(c))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"userApplication": userApplication})
}

// HandleSubmitForm creates a form submission for a catalog entry.
func HandleSubmitForm(c *fiber.Ctx) error {
	var req submitFormRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	uc := usercontext.GetUserContext(c)
	userApplication, err := submissionService.SubmitForm(uc.UserID, uc.Name, uc.Email, req.ApplicationID, req.FormData)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, "Application submitted successfully",
		fiber.Map{"userApplication": userApplication})
}

// HandleUpdateUserApplication replaces the form data of a pending form submission.
func HandleUpdateUserApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req updateFormDataRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	userApplication, err := submissionService.UpdateFormData(usercontext.GetUserID(c), id, req.FormData)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Application updated successfully",
		fiber.Map{"userApplication": userApplication})
}

// HandleDeleteUserApplication withdraws a pending submission.
func HandleDeleteUserApplication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := submissionService.Delete(usercontext.GetUserID(c), id); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "Application deleted successfully", nil)
}
