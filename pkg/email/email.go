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
	SMTPPort     int
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

// SendLoginOTPEmail sends the verification code required to finish an
// administrator login
func (s *EmailService) SendLoginOTPEmail(toEmail, code string, expiryMinutes int) error {
	htmlContent, err := s.renderOTPEmail(otpEmailData{
		Title:         "Verify Your Login",
		Intro:         fmt.Sprintf("A sign-in to the account <strong>%s</strong> was requested. Enter the code below to continue.", toEmail),
		Code:          code,
		ExpiryMinutes: expiryMinutes,
		AppName:       "VoltMart",
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Your Login Verification Code - VoltMart"
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// SendDeliveryOTPEmail sends the confirmation code a customer presents to
// confirm delivery of a sale
func (s *EmailService) SendDeliveryOTPEmail(toEmail, invoiceNo, code string, expiryMinutes int) error {
	htmlContent, err := s.renderOTPEmail(otpEmailData{
		Title:         "Confirm Your Delivery",
		Intro:         fmt.Sprintf("Your order <strong>%s</strong> is out for delivery. Share the code below with the courier to confirm receipt.", invoiceNo),
		Code:          code,
		ExpiryMinutes: expiryMinutes,
		AppName:       "VoltMart",
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Delivery Confirmation Code for %s - VoltMart", invoiceNo)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
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

type otpEmailData struct {
	Title         string
	Intro         string
	Code          string
	ExpiryMinutes int
	AppName       string
}

// renderOTPEmail renders the one-time code email template
func (s *EmailService) renderOTPEmail(data otpEmailData) (string, error) {
	tmpl, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// otpTemplate is the HTML template for one-time code emails
const otpTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <!-- Header -->
                    <tr>
                        <td style="background: linear-gradient(135deg, #0f766e 0%, #134e4a 100%); padding: 40px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">{{.AppName}}</h1>
                        </td>
                    </tr>

                    <!-- Content -->
                    <tr>
                        <td style="padding: 40px 30px;">
                            <h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 24px; font-weight: 600;">{{.Title}}</h2>

                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 20px 0;">
                                Hello,
                            </p>

                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 30px 0;">
                                {{.Intro}}
                            </p>

                            <!-- Code -->
                            <table role="presentation" style="margin: 0 auto 30px auto;">
                                <tr>
                                    <td style="background-color: #f0fdfa; border: 1px solid #99f6e4; border-radius: 8px; padding: 20px 40px;">
                                        <span style="display: inline-block; color: #134e4a; font-size: 32px; font-weight: 700; letter-spacing: 8px;">{{.Code}}</span>
                                    </td>
                                </tr>
                            </table>

                            <p style="color: #718096; font-size: 14px; line-height: 1.6; margin: 0 0 20px 0;">
                                This code will expire in <strong>{{.ExpiryMinutes}} minutes</strong>.
                            </p>

                            <p style="color: #718096; font-size: 14px; line-height: 1.6; margin: 0;">
                                If you didn't expect this email, you can safely ignore it.
                            </p>
                        </td>
                    </tr>

                    <!-- Footer -->
                    <tr>
                        <td style="background-color: #f8fafc; padding: 30px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 14px; margin: 0 0 10px 0;">
                                This email was sent by {{.AppName}}
                            </p>
                            <p style="color: #cbd5e0; font-size: 12px; margin: 0;">
                                © 2026 {{.AppName}}. All rights reserved.
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
