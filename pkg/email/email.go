package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// IsConfigured reports whether an SMTP host is set up.
func (s *EmailService) IsConfigured() bool {
	return s.config.SMTPHost != ""
}

// SendReceiptEmail sends a sale receipt to a customer. The body is the
// plain-text thermal rendering, wrapped in a minimal HTML shell so it keeps
// its column alignment in mail clients.
func (s *EmailService) SendReceiptEmail(toEmail, storeName, transactionID, receiptText string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email: SMTP is not configured")
	}

	htmlContent, err := s.renderReceiptEmail(storeName, transactionID, receiptText)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your receipt %s - %s", transactionID, storeName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := s.config.SMTPHost + ":" + s.config.SMTPPort

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func (s *EmailService) renderReceiptEmail(storeName, transactionID, receiptText string) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		StoreName     string
		TransactionID string
		ReceiptText   string
	}{
		StoreName:     storeName,
		TransactionID: transactionID,
		ReceiptText:   receiptText,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// receiptTemplate is the HTML template for receipt emails
const receiptTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.TransactionID}}</title>
</head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f4f7fa;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.08);">
        <h2 style="color: #1a1a2e; margin: 0 0 8px 0;">{{.StoreName}}</h2>
        <p style="color: #4a5568; margin: 0 0 16px 0;">
            Thank you for your purchase. Your receipt for transaction
            <strong>{{.TransactionID}}</strong> is below.
        </p>
        <pre style="background: #f8fafc; border: 1px solid #e2e8f0; border-radius: 6px; padding: 16px; font-family: 'Courier New', monospace; font-size: 13px; overflow-x: auto;">{{.ReceiptText}}</pre>
        <p style="color: #a0aec0; font-size: 12px; margin: 16px 0 0 0;">
            This is an automated message. Please do not reply.
        </p>
    </div>
</body>
</html>
`
