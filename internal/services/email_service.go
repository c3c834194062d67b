package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/ahamhfc/aham-cms-api/internal/config"
	"github.com/ahamhfc/aham-cms-api/internal/models"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// emailSender is the part of the Resend client the service uses.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailService sends account notifications through Resend. It is a no-op
// when RESEND_API_KEY is not configured.
type EmailService struct {
	enabled  bool
	from     string
	adminURL string
	sender   emailSender
}

func NewEmailService(cfg *config.Config) *EmailService {
	svc := &EmailService{
		enabled:  cfg.ResendAPIKey != "",
		from:     cfg.FromEmail,
		adminURL: cfg.AdminPanelURL,
	}
	if svc.enabled {
		svc.sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return svc
}

// Enabled reports whether notifications will actually be sent.
func (s *EmailService) Enabled() bool {
	return s.enabled
}

func (s *EmailService) checkEmailPreconditions(user *models.User) (bool, error) {
	if !s.enabled {
		return false, nil
	}
	if s.from == "" {
		return false, errors.New("FROM_EMAIL is not set")
	}
	if user.Email == "" {
		return false, errors.New("email address is empty")
	}
	return true, nil
}

// SendAccountCreated tells a new CMS user that their account exists. The
// password is never included.
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	ok, err := s.checkEmailPreconditions(user)
	if !ok {
		return err
	}

	data := struct {
		Name     string
		Email    string
		Role     string
		AdminURL string
	}{
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		AdminURL: s.adminURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{user.Email},
		Subject: "Your AHAM CMS account",
		Html:    body,
	}
	if _, err := s.sender.Send(params); err != nil {
		logger.Error("Failed to send email", "to", user.Email, "error", err)
		return fmt.Errorf("send account email: %w", err)
	}

	logger.Info("Email sent", "to", user.Email, "subject", params.Subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
