package submission

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/mail"
)

// Notifier sends lifecycle emails. Failures are observed only for logging and
// never fail the triggering request.
type Notifier interface {
	SubmissionConfirmation(to string, data mail.SubmissionData) error
	StatusUpdate(to string, data mail.StatusUpdateData) error
}

// Service drives the submission lifecycle: creation, owner edits while
// pending, and admin status transitions.
type Service struct {
	userApplications repository.UserApplicationRepository
	applications     repository.ApplicationRepository
	notifier         Notifier
}

// NewService creates a submission service from injected repositories.
func NewService(
	userApplications repository.UserApplicationRepository,
	applications repository.ApplicationRepository,
	notifier Notifier,
) *Service {
	return &Service{
		userApplications: userApplications,
		applications:     applications,
		notifier:         notifier,
	}
}

// SubmitForm creates a form-type submission for the (user, application) pair.
func (s *Service) SubmitForm(userID uint, userName, userEmail string, applicationID uint, formData json.RawMessage) (*models.UserApplication, error) {
	application, err := s.activeApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNotSubmitted(userID, applicationID); err != nil {
		return nil, err
	}

	userApplication := &models.UserApplication{
		UserID:         userID,
		ApplicationID:  applicationID,
		SubmissionType: models.SUBMISSION_TYPE_FORM,
		FormData:       formData,
		Status:         models.SUBMISSION_STATUS_PENDING,
	}
	if err := s.userApplications.Create(userApplication); err != nil {
		if apperror.IsDuplicateEntry(err) {
			return nil, apperror.NewConflict("You have already submitted this application")
		}
		return nil, err
	}

	if err := s.notifier.SubmissionConfirmation(userEmail, mail.SubmissionData{
		UserName:         userName,
		ApplicationTitle: application.Title,
		TrackingNumber:   userApplication.TrackingNumber,
		SubmissionType:   "Form Submission",
		Status:           "Pending",
		SubmittedAt:      userApplication.SubmittedAt.Format("02.01.2006"),
	}); err != nil {
		log.Printf("failed to send submission confirmation email: %v", err)
	}

	return s.userApplications.GetDetailByIDAndUser(userApplication.ID, userID)
}

// SubmitDocuments creates a document-type submission; the actual files arrive
// through the separate upload endpoint afterwards.
func (s *Service) SubmitDocuments(userID, applicationID uint) (*models.UserApplication, *models.Application, error) {
	application, err := s.activeApplication(applicationID)
	if err != nil {
		return nil, nil, err
	}
	if !application.AllowDocumentUpload {
		return nil, nil, apperror.NewNotFound("Application not found or does not allow document upload")
	}

	if err := s.ensureNotSubmitted(userID, applicationID); err != nil {
		return nil, nil, err
	}

	userApplication := &models.UserApplication{
		UserID:         userID,
		ApplicationID:  applicationID,
		SubmissionType: models.SUBMISSION_TYPE_DOCUMENT,
		Status:         models.SUBMISSION_STATUS_PENDING,
		AmountPaid:     application.ProcessingFee,
	}
	if err := s.userApplications.Create(userApplication); err != nil {
		if apperror.IsDuplicateEntry(err) {
			return nil, nil, apperror.NewConflict("You have already submitted this application")
		}
		return nil, nil, err
	}

	return userApplication, application, nil
}

// UpdateFormData replaces the form payload of an owned, still pending,
// form-type submission.
func (s *Service) UpdateFormData(userID, id uint, formData json.RawMessage) (*models.UserApplication, error) {
	userApplication, err := s.userApplications.GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Application not found or cannot be edited")
		}
		return nil, err
	}
	if !userApplication.IsPending() {
		return nil, apperror.NewNotFound("Application not found or cannot be edited")
	}

	// Document-type submissions carry no editable form payload.
	if userApplication.SubmissionType == models.SUBMISSION_TYPE_FORM && len(formData) > 0 {
		userApplication.FormData = formData
		if err := s.userApplications.Update(userApplication); err != nil {
			return nil, err
		}
	}

	return s.userApplications.GetDetailByIDAndUser(id, userID)
}

// Delete hard deletes an owned submission while it is still pending.
func (s *Service) Delete(userID, id uint) error {
	userApplication, err := s.userApplications.GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFound("Application not found or cannot be deleted")
		}
		return err
	}
	if !userApplication.IsPending() {
		return apperror.NewNotFound("Application not found or cannot be deleted")
	}

	return s.userApplications.Delete(id)
}

// UpdateStatus sets a new lifecycle state on any submission. Admins may move
// between any of the four states; completed and rejected stamp their
// timestamps, the other states stamp neither.
func (s *Service) UpdateStatus(id uint, status, adminNotes, rejectionReason string) (*models.UserApplication, error) {
	if !models.IsValidSubmissionStatus(status) {
		return nil, apperror.NewBadRequest("Invalid status value")
	}

	userApplication, err := s.userApplications.GetDetailByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("User application not found")
		}
		return nil, err
	}

	userApplication.Status = status
	userApplication.AdminNotes = adminNotes

	now := time.Now()
	switch status {
	case models.SUBMISSION_STATUS_COMPLETED:
		userApplication.CompletedAt = &now
	case models.SUBMISSION_STATUS_REJECTED:
		userApplication.RejectedAt = &now
		userApplication.RejectionReason = rejectionReason
	}

	if err := s.userApplications.Update(userApplication); err != nil {
		return nil, err
	}

	if userApplication.User != nil && userApplication.Application != nil {
		if err := s.notifier.StatusUpdate(userApplication.User.Email, mail.StatusUpdateData{
			UserName:         userApplication.User.Name,
			ApplicationTitle: userApplication.Application.Title,
			TrackingNumber:   userApplication.TrackingNumber,
			Status:           capitalize(status),
			StatusColor:      mail.StatusColor(status),
			AdminNotes:       adminNotes,
		}); err != nil {
			log.Printf("failed to send status update email: %v", err)
		}
	}

	return userApplication, nil
}

func (s *Service) activeApplication(applicationID uint) (*models.Application, error) {
	application, err := s.applications.GetActiveByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Application not found or inactive")
		}
		return nil, err
	}
	return application, nil
}

func (s *Service) ensureNotSubmitted(userID, applicationID uint) error {
	_, err := s.userApplications.GetByUserAndApplication(userID, applicationID)
	if err == nil {
		return apperror.NewConflict("You have already submitted this application")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
