// Package mailer delivers transactional account emails through SendGrid.
// Bodies are rendered from django templates so operators can restyle them
// without touching code.
package mailer

import (
	"bytes"
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/gofiber/template/django/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	shop "github.com/goliatone/go-shop"
)

const (
	verificationSubject  = "Please verify your account!"
	passwordResetSubject = "Reset Password!"

	verificationTemplate  = "verify_account"
	passwordResetTemplate = "password_reset"
)

// Config carries everything the mailer needs to build and send messages.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
	// BaseURL is the public address of the frontend that hosts the
	// verification and reset pages, e.g. https://shop.example.com
	BaseURL      string
	TemplatesDir string
}

// Mailer implements shop.Mailer on top of the SendGrid API.
type Mailer struct {
	client *sendgrid.Client
	engine *django.Engine
	cfg    Config
	logger shop.Logger
}

// Verify interface compliance
var _ shop.Mailer = (*Mailer)(nil)

// NewMailer loads the mail templates and returns a ready mailer.
func NewMailer(cfg Config) (*Mailer, error) {
	if cfg.APIKey == "" {
		return nil, goerrors.New("mailer requires a SendGrid API key", goerrors.CategoryBadInput)
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "./mailer/templates"
	}

	engine := django.New(cfg.TemplatesDir, ".django")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load mail templates")
	}

	return &Mailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		engine: engine,
		cfg:    cfg,
		logger: shop.DefaultLogger(),
	}, nil
}

// WithLogger overrides the default logger
func (m *Mailer) WithLogger(logger shop.Logger) *Mailer {
	m.logger = logger
	return m
}

func (m *Mailer) SendAccountVerification(ctx context.Context, name, email, token string) error {
	link := fmt.Sprintf("%s/verify-account?token=%s", m.cfg.BaseURL, token)
	plain := fmt.Sprintf("Hi %s, please verify your account: %s", name, link)

	return m.send(ctx, verificationTemplate, verificationSubject, name, email, link, plain)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, name, email, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.BaseURL, token)
	plain := fmt.Sprintf("Hi %s, reset your password here: %s", name, link)

	return m.send(ctx, passwordResetTemplate, passwordResetSubject, name, email, link, plain)
}

func (m *Mailer) send(ctx context.Context, template, subject, name, email, link, plain string) error {
	html, err := m.render(template, name, link)
	if err != nil {
		return err
	}

	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send email")
	}

	if response.StatusCode >= 400 {
		return goerrors.New("email provider rejected message", goerrors.CategoryOperation).
			WithMetadata(map[string]any{
				"status_code": response.StatusCode,
				"template":    template,
			})
	}

	m.logger.Debug("email sent template=%s status=%d", template, response.StatusCode)

	return nil
}

func (m *Mailer) render(template, name, link string) (string, error) {
	var buf bytes.Buffer
	err := m.engine.Render(&buf, template, map[string]any{
		"name": name,
		"link": link,
	})
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render mail template").
			WithMetadata(map[string]any{"template": template})
	}
	return buf.String(), nil
}
