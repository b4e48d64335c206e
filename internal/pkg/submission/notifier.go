package submission

import "github.com/OpenFormsApp/OpenForms/internal/pkg/mail"

// SMTPNotifier delivers lifecycle emails through the shared SMTP mailer.
type SMTPNotifier struct{}

// NewSMTPNotifier creates the production notifier.
func NewSMTPNotifier() *SMTPNotifier {
	return &SMTPNotifier{}
}

func (n *SMTPNotifier) SubmissionConfirmation(to string, data mail.SubmissionData) error {
	return mail.SendSubmissionMail(to, data)
}

func (n *SMTPNotifier) StatusUpdate(to string, data mail.StatusUpdateData) error {
	return mail.SendStatusUpdateMail(to, data)
}
