package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"jurisai-api/internal/config"
	"jurisai-api/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles email sending via SendGrid
type EmailService struct {
	apiKey    string
	fromEmail string
	client    *sendgrid.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig) *EmailService {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &EmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		client:    client,
	}
}

// SendIntakeNotification sends the intake assessment email with the advice
// PDF attached
func (s *EmailService) SendIntakeNotification(toEmail, clientName string, task *models.Task, pdfData []byte) error {
	from := mail.NewEmail("JurisAI", s.fromEmail)
	to := mail.NewEmail(clientName, toEmail)
	subject := fmt.Sprintf("Your Legal Intake Assessment - %s", clientName)

	htmlContent := s.buildIntakeEmailHTML(clientName, task)
	plainTextContent := s.buildIntakeEmailText(clientName, task)

	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	if len(pdfData) > 0 {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(pdfData))
		attachment.SetType("application/pdf")
		attachment.SetFilename(fmt.Sprintf("intake-assessment-%s.pdf", task.ID))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

// buildIntakeEmailHTML builds the HTML content for the intake notification
func (s *EmailService) buildIntakeEmailHTML(clientName string, task *models.Task) string {
	var html bytes.Buffer

	html.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0066cc; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background-color: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        .summary-box { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; border-left: 4px solid #0066cc; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="header">
        <h1 style="margin: 0;">Legal Intake Assessment</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">` + clientName + `</p>
    </div>
    <div class="content">
        <p>Hello ` + clientName + `,</p>
        <p>Thank you for your intake submission. Our initial assessment of your case is ready.</p>`)

	if task.Result != nil && task.Result.CaseType != "" {
		html.WriteString(`
        <div class="summary-box">
            <h3 style="margin-top: 0; color: #0066cc;">Case Type</h3>
            <p>` + task.Result.CaseType + `</p>
        </div>`)
	}

	html.WriteString(`
        <p>The complete assessment is attached as a PDF document.</p>
        <p>Best regards,<br>JurisAI Team</p>
    </div>
    <div class="footer">
        <p>This is an automated email. Please do not reply.</p>
        <p>Generated on ` + time.Now().Format(time.RFC1123) + `</p>
    </div>
</body>
</html>`)

	return html.String()
}

// buildIntakeEmailText builds the plain text content for the intake
// notification
func (s *EmailService) buildIntakeEmailText(clientName string, task *models.Task) string {
	var text bytes.Buffer

	text.WriteString(fmt.Sprintf("Legal Intake Assessment - %s\n\n", clientName))
	text.WriteString(fmt.Sprintf("Hello %s,\n\n", clientName))
	text.WriteString("Thank you for your intake submission. Our initial assessment of your case is ready.\n\n")
	if task.Result != nil && task.Result.CaseType != "" {
		text.WriteString(fmt.Sprintf("Case Type: %s\n\n", task.Result.CaseType))
	}
	text.WriteString("The complete assessment is attached as a PDF document.\n\n")
	text.WriteString("Best regards,\nJurisAI Team\n")

	return text.String()
}
