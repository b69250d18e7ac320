package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// EmailService sends transactional emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// StatusUpdateEmailData holds the data for application status emails
type StatusUpdateEmailData struct {
	DeveloperName  string
	DeveloperEmail string
	JobTitle       string
	Status         string
}

func NewEmailService(cfg Config) *EmailService {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &EmailService{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: from,
		sendMail:  smtp.SendMail,
	}
}

const statusUpdateTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application update</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f2937; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .status { display: inline-block; padding: 4px 12px; background: #e5e7eb; font-weight: bold; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your application was updated</h1>
        </div>
        <div class="content">
            <p>Hi {{.DeveloperName}},</p>
            <p>Your application for <strong>{{.JobTitle}}</strong> is now:</p>
            <p class="status">{{.Status}}</p>
        </div>
        <div class="footer">
            <p>You are receiving this because you applied through the job board.</p>
        </div>
    </div>
</body>
</html>`

var statusTmpl = template.Must(template.New("status").Parse(statusUpdateTemplate))

// SendStatusUpdate tells a developer that an employer moved their application.
func (s *EmailService) SendStatusUpdate(data StatusUpdateEmailData) error {
	var body bytes.Buffer
	if err := statusTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := fmt.Sprintf("Application %s: %s", data.Status, data.JobTitle)
	return s.send(data.DeveloperEmail, subject, body.String())
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	// Header injection guard
	if strings.ContainsAny(to+subject, "\r\n") {
		return fmt.Errorf("invalid email header value")
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		htmlBody,
	))

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.sendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has a usable SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.fromEmail != ""
}
