package mail

import "fmt"

// Server-rendered HTML bodies for the four notification events. Simple string
// interpolation, matching the tone of the transactional mails the frontend
// links back into.

// VerificationData feeds the email verification template.
type VerificationData struct {
	Name            string
	VerificationURL string
}

// PasswordResetData feeds the password reset template.
type PasswordResetData struct {
	Name     string
	ResetURL string
}

// SubmissionData feeds the submission confirmation template.
type SubmissionData struct {
	UserName         string
	ApplicationTitle string
	TrackingNumber   string
	SubmissionType   string
	Status           string
	SubmittedAt      string
}

// StatusUpdateData feeds the status update template.
type StatusUpdateData struct {
	UserName         string
	ApplicationTitle string
	TrackingNumber   string
	Status           string
	StatusColor      string
	AdminNotes       string
}

// StatusColor returns the accent color used in status update mails.
func StatusColor(status string) string {
	switch status {
	case "pending":
		return "#F59E0B"
	case "inProgress":
		return "#3B82F6"
	case "completed":
		return "#10B981"
	case "rejected":
		return "#EF4444"
	}
	return "#6B7280"
}

// SendVerificationMail sends the email verification mail.
func SendVerificationMail(to string, data VerificationData) error {
	subject := "Verify Your Email - OpenForms"
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to OpenForms, %s!</h2>
  <p>Thank you for registering with us. Please verify your email address by clicking the button below:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #6366F1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Verify Email Address</a>
  </div>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p><a href="%s">%s</a></p>
  <p>This verification link will expire in 24 hours.</p>
  <hr style="margin: 30px 0;">
  <p style="color: #666; font-size: 14px;">If you didn't create an account with us, please ignore this email.</p>
</div>`, data.Name, data.VerificationURL, data.VerificationURL, data.VerificationURL)

	return SendMail(to, subject, body)
}

// SendPasswordResetMail sends the password reset mail.
func SendPasswordResetMail(to string, data PasswordResetData) error {
	subject := "Password Reset - OpenForms"
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Hello %s,</p>
  <p>We received a request to reset your password. Click the button below to reset it:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #EF4444; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
  </div>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p><a href="%s">%s</a></p>
  <p>This reset link will expire in 10 minutes for security reasons.</p>
  <hr style="margin: 30px 0;">
  <p style="color: #666; font-size: 14px;">If you didn't request a password reset, please ignore this email. Your password will remain unchanged.</p>
</div>`, data.Name, data.ResetURL, data.ResetURL, data.ResetURL)

	return SendMail(to, subject, body)
}

// SendSubmissionMail sends the submission confirmation mail.
func SendSubmissionMail(to string, data SubmissionData) error {
	subject := fmt.Sprintf("Application Submitted - %s", data.ApplicationTitle)
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Application Submitted Successfully</h2>
  <p>Hello %s,</p>
  <p>Your application for <strong>%s</strong> has been submitted successfully.</p>
  <div style="background-color: #F3F4F6; padding: 20px; border-radius: 6px; margin: 20px 0;">
    <h3>Application Details:</h3>
    <p><strong>Tracking Number:</strong> %s</p>
    <p><strong>Submission Type:</strong> %s</p>
    <p><strong>Status:</strong> %s</p>
    <p><strong>Submitted At:</strong> %s</p>
  </div>
  <p>You can track your application status using the tracking number provided above.</p>
  <p>We will notify you of any updates regarding your application.</p>
</div>`, data.UserName, data.ApplicationTitle, data.TrackingNumber, data.SubmissionType, data.Status, data.SubmittedAt)

	return SendMail(to, subject, body)
}

// SendStatusUpdateMail sends the status update mail.
func SendStatusUpdateMail(to string, data StatusUpdateData) error {
	subject := fmt.Sprintf("Application Status Update - %s", data.ApplicationTitle)
	notes := ""
	if data.AdminNotes != "" {
		notes = fmt.Sprintf(`<p><strong>Notes:</strong> %s</p>`, data.AdminNotes)
	}
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Application Status Update</h2>
  <p>Hello %s,</p>
  <p>The status of your application for <strong>%s</strong> has been updated.</p>
  <div style="background-color: #F3F4F6; padding: 20px; border-radius: 6px; margin: 20px 0;">
    <p><strong>Tracking Number:</strong> %s</p>
    <p><strong>New Status:</strong> <span style="color: %s;">%s</span></p>
    %s
  </div>
  <p>Thank you for using our service.</p>
</div>`, data.UserName, data.ApplicationTitle, data.TrackingNumber, data.StatusColor, data.Status, notes)

	return SendMail(to, subject, body)
}
