package controllers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/usercontext"
)

const maxDocumentSize = 10 * 1024 * 1024

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

type submitDocumentsRequest struct {
	ApplicationID uint `json:"applicationId" validate:"required,min=1"`
}

// HandleSubmitDocuments opens a document submission for a catalog entry.
// Files are uploaded afterwards against the returned submission.
func HandleSubmitDocuments(c *fiber.Ctx) error {
	var req submitDocumentsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	userApplication, application, err := submissionService.SubmitDocuments(usercontext.GetUserID(c), req.ApplicationID)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, "Application submitted successfully", fiber.Map{
		"userApplication": userApplication,
		"processingFee":   application.ProcessingFee,
		"requiresPayment": application.RequiresPayment(),
	})
}

// HandleUploadDocument stores one file against a pending document submission
// owned by the caller.
func HandleUploadDocument(c *fiber.Ctx) error {
	if documentStore == nil {
		return apperror.New(fiber.StatusServiceUnavailable, "Document storage is not available")
	}

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	userApplication, err := repository.GetGlobalFactory().
		GetUserApplicationRepository().GetByIDAndUser(id, usercontext.GetUserID(c))
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}
	if userApplication.SubmissionType != models.SUBMISSION_TYPE_DOCUMENT {
		return apperror.NewBadRequest("Documents can only be uploaded to document applications")
	}
	if !userApplication.IsPending() {
		return apperror.NewBadRequest("Documents can only be uploaded while the application is pending")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return apperror.NewBadRequest("Document file is required")
	}
	if fileHeader.Size > maxDocumentSize {
		return apperror.NewBadRequest("Document exceeds the maximum size of 10MB")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		return apperror.NewBadRequest("Unsupported document type")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(fileHeader.Filename)))
	fileURL, err := documentStore.Put(c.Context(), userApplication.ID, fileName, contentType, file, fileHeader.Size)
	if err != nil {
		return apperror.NewInternal("Failed to store document")
	}

	document := &models.Document{
		UserApplicationID: userApplication.ID,
		FileName:          fileName,
		OriginalName:      fileHeader.Filename,
		MimeType:          contentType,
		FileSize:          fileHeader.Size,
		FileURL:           fileURL,
		DocumentType:      c.FormValue("documentType"),
	}
	if err := repository.GetGlobalFactory().GetDocumentRepository().Create(document); err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, "Document uploaded successfully",
		fiber.Map{"document": document})
}

// HandleListDocuments lists the documents of a submission owned by the caller.
func HandleListDocuments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	userApplication, err := repository.GetGlobalFactory().
		GetUserApplicationRepository().GetByIDAndUser(id, usercontext.GetUserID(c))
	if err != nil {
		return apperror.NewNotFound("Application not found")
	}

	documents, err := repository.GetGlobalFactory().
		GetDocumentRepository().ListByUserApplication(userApplication.ID)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"documents": documents})
}
