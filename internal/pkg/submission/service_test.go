package submission

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/OpenFormsApp/OpenForms/app/models"
	"github.com/OpenFormsApp/OpenForms/app/repository"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/apperror"
	"github.com/OpenFormsApp/OpenForms/internal/pkg/mail"
)

type fakeUserApplicationRepo struct {
	repository.UserApplicationRepository

	byID       map[uint]*models.UserApplication
	byUserApp  map[[2]uint]*models.UserApplication
	createErr  error
	nextID     uint
	deletedIDs []uint
	updated    *models.UserApplication
}

func newFakeUserApplicationRepo() *fakeUserApplicationRepo {
	return &fakeUserApplicationRepo{
		byID:      map[uint]*models.UserApplication{},
		byUserApp: map[[2]uint]*models.UserApplication{},
		nextID:    1,
	}
}

func (f *fakeUserApplicationRepo) add(ua *models.UserApplication) *models.UserApplication {
	if ua.ID == 0 {
		ua.ID = f.nextID
		f.nextID++
	}
	f.byID[ua.ID] = ua
	f.byUserApp[[2]uint{ua.UserID, ua.ApplicationID}] = ua
	return ua
}

func (f *fakeUserApplicationRepo) Create(ua *models.UserApplication) error {
	if f.createErr != nil {
		return f.createErr
	}
	ua.TrackingNumber = "TRK-TEST-ABCDE"
	f.add(ua)
	return nil
}

func (f *fakeUserApplicationRepo) GetByID(id uint) (*models.UserApplication, error) {
	return f.lookup(id)
}

func (f *fakeUserApplicationRepo) GetDetailByID(id uint) (*models.UserApplication, error) {
	return f.lookup(id)
}

func (f *fakeUserApplicationRepo) GetByIDAndUser(id, userID uint) (*models.UserApplication, error) {
	ua, err := f.lookup(id)
	if err != nil || ua.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return ua, nil
}

func (f *fakeUserApplicationRepo) GetDetailByIDAndUser(id, userID uint) (*models.UserApplication, error) {
	return f.GetByIDAndUser(id, userID)
}

func (f *fakeUserApplicationRepo) GetByUserAndApplication(userID, applicationID uint) (*models.UserApplication, error) {
	ua, ok := f.byUserApp[[2]uint{userID, applicationID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ua, nil
}

func (f *fakeUserApplicationRepo) Update(ua *models.UserApplication) error {
	f.updated = ua
	f.byID[ua.ID] = ua
	return nil
}

func (f *fakeUserApplicationRepo) Delete(id uint) error {
	delete(f.byID, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeUserApplicationRepo) lookup(id uint) (*models.UserApplication, error) {
	ua, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ua, nil
}

type fakeApplicationRepo struct {
	repository.ApplicationRepository

	active map[uint]*models.Application
}

func (f *fakeApplicationRepo) GetActiveByID(id uint) (*models.Application, error) {
	app, ok := f.active[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

type fakeNotifier struct {
	confirmations []mail.SubmissionData
	statusUpdates []mail.StatusUpdateData
	err           error
}

func (f *fakeNotifier) SubmissionConfirmation(to string, data mail.SubmissionData) error {
	f.confirmations = append(f.confirmations, data)
	return f.err
}

func (f *fakeNotifier) StatusUpdate(to string, data mail.StatusUpdateData) error {
	f.statusUpdates = append(f.statusUpdates, data)
	return f.err
}

func newTestService() (*Service, *fakeUserApplicationRepo, *fakeApplicationRepo, *fakeNotifier) {
	uaRepo := newFakeUserApplicationRepo()
	appRepo := &fakeApplicationRepo{active: map[uint]*models.Application{
		1: {ID: 1, Title: "Passport Renewal", AllowDocumentUpload: true},
	}}
	notifier := &fakeNotifier{}
	return NewService(uaRepo, appRepo, notifier), uaRepo, appRepo, notifier
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestSubmitForm(t *testing.T) {
	service, uaRepo, _, notifier := newTestService()

	formData := json.RawMessage(`{"name":"Jane"}`)
	ua, err := service.SubmitForm(10, "Jane", "jane@example.com", 1, formData)
	require.NoError(t, err)

	assert.Equal(t, models.SUBMISSION_TYPE_FORM, ua.SubmissionType)
	assert.Equal(t, models.SUBMISSION_STATUS_PENDING, ua.Status)
	assert.JSONEq(t, `{"name":"Jane"}`, string(ua.FormData))

	require.Len(t, notifier.confirmations, 1)
	assert.Equal(t, "Passport Renewal", notifier.confirmations[0].ApplicationTitle)
	assert.Equal(t, uaRepo.byID[ua.ID].TrackingNumber, notifier.confirmations[0].TrackingNumber)
}

func TestSubmitForm_InactiveApplication(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.SubmitForm(10, "Jane", "jane@example.com", 99, json.RawMessage(`{}`))
	requireStatus(t, err, 404)
}

func TestSubmitForm_AlreadySubmitted(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	uaRepo.add(&models.UserApplication{UserID: 10, ApplicationID: 1})

	_, err := service.SubmitForm(10, "Jane", "jane@example.com", 1, json.RawMessage(`{}`))
	requireStatus(t, err, 409)
}

func TestSubmitForm_DuplicateKeyRace(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	uaRepo.createErr = gorm.ErrDuplicatedKey

	_, err := service.SubmitForm(10, "Jane", "jane@example.com", 1, json.RawMessage(`{}`))
	requireStatus(t, err, 409)
}

func TestSubmitForm_MailFailureDoesNotFail(t *testing.T) {
	service, _, _, notifier := newTestService()
	notifier.err = errors.New("smtp unreachable")

	_, err := service.SubmitForm(10, "Jane", "jane@example.com", 1, json.RawMessage(`{}`))
	require.NoError(t, err)
}

func TestSubmitDocuments(t *testing.T) {
	service, _, _, _ := newTestService()

	ua, app, err := service.SubmitDocuments(10, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SUBMISSION_TYPE_DOCUMENT, ua.SubmissionType)
	assert.Equal(t, "Passport Renewal", app.Title)
}

func TestSubmitDocuments_UploadNotAllowed(t *testing.T) {
	service, _, appRepo, _ := newTestService()
	appRepo.active[1].AllowDocumentUpload = false

	_, _, err := service.SubmitDocuments(10, 1)
	requireStatus(t, err, 404)
}

func TestUpdateFormData(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:         10,
		ApplicationID:  1,
		Status:         models.SUBMISSION_STATUS_PENDING,
		SubmissionType: models.SUBMISSION_TYPE_FORM,
	})

	updated, err := service.UpdateFormData(10, ua.ID, json.RawMessage(`{"name":"Janet"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Janet"}`, string(updated.FormData))
}

func TestUpdateFormData_NotPending(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:         10,
		ApplicationID:  1,
		Status:         models.SUBMISSION_STATUS_IN_PROGRESS,
		SubmissionType: models.SUBMISSION_TYPE_FORM,
	})

	_, err := service.UpdateFormData(10, ua.ID, json.RawMessage(`{}`))
	requireStatus(t, err, 404)
}

func TestUpdateFormData_WrongOwner(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:         10,
		ApplicationID:  1,
		Status:         models.SUBMISSION_STATUS_PENDING,
		SubmissionType: models.SUBMISSION_TYPE_FORM,
	})

	_, err := service.UpdateFormData(11, ua.ID, json.RawMessage(`{}`))
	requireStatus(t, err, 404)
}

func TestDelete(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:        10,
		ApplicationID: 1,
		Status:        models.SUBMISSION_STATUS_PENDING,
	})

	require.NoError(t, service.Delete(10, ua.ID))
	assert.Equal(t, []uint{ua.ID}, uaRepo.deletedIDs)
}

func TestDelete_NotPending(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:        10,
		ApplicationID: 1,
		Status:        models.SUBMISSION_STATUS_COMPLETED,
	})

	err := service.Delete(10, ua.ID)
	requireStatus(t, err, 404)
	assert.Empty(t, uaRepo.deletedIDs)
}

func TestUpdateStatus_Completed(t *testing.T) {
	service, uaRepo, _, notifier := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:        10,
		ApplicationID: 1,
		Status:        models.SUBMISSION_STATUS_PENDING,
		User:          &models.User{Name: "Jane", Email: "jane@example.com"},
		Application:   &models.Application{Title: "Passport Renewal"},
	})

	updated, err := service.UpdateStatus(ua.ID, models.SUBMISSION_STATUS_COMPLETED, "all good", "")
	require.NoError(t, err)
	assert.Equal(t, models.SUBMISSION_STATUS_COMPLETED, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Nil(t, updated.RejectedAt)
	assert.Equal(t, "all good", updated.AdminNotes)

	require.Len(t, notifier.statusUpdates, 1)
	assert.Equal(t, "Completed", notifier.statusUpdates[0].Status)
	assert.Equal(t, "#10B981", notifier.statusUpdates[0].StatusColor)
}

func TestUpdateStatus_Rejected(t *testing.T) {
	service, uaRepo, _, _ := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:        10,
		ApplicationID: 1,
		Status:        models.SUBMISSION_STATUS_IN_PROGRESS,
	})

	updated, err := service.UpdateStatus(ua.ID, models.SUBMISSION_STATUS_REJECTED, "", "missing documents")
	require.NoError(t, err)
	assert.NotNil(t, updated.RejectedAt)
	assert.Equal(t, "missing documents", updated.RejectionReason)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.UpdateStatus(1, "approved", "", "")
	requireStatus(t, err, 400)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.UpdateStatus(99, models.SUBMISSION_STATUS_COMPLETED, "", "")
	requireStatus(t, err, 404)
}

func TestUpdateStatus_MissingRelationsSkipsMail(t *testing.T) {
	service, uaRepo, _, notifier := newTestService()
	ua := uaRepo.add(&models.UserApplication{
		UserID:        10,
		ApplicationID: 1,
		Status:        models.SUBMISSION_STATUS_PENDING,
	})

	_, err := service.UpdateStatus(ua.ID, models.SUBMISSION_STATUS_IN_PROGRESS, "", "")
	require.NoError(t, err)
	assert.Empty(t, notifier.statusUpdates)
}
