package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ugeco-backoffice/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailSender is the part of the SendGrid client we use.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client   mailSender
	from     string
	fromName string
	appURL   string
}

func NewSendGridEmailService(apiKey, from, fromName, appURL string) EmailService {
	return newSendGridEmailService(sendgrid.NewSendClient(apiKey), from, fromName, appURL)
}

func newSendGridEmailService(client mailSender, from, fromName, appURL string) *sendGridEmailService {
	return &sendGridEmailService{
		client:   client,
		from:     from,
		fromName: fromName,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

func (s *sendGridEmailService) SendInitEmail(ctx context.Context, to, rawToken string) error {
	link := initLink(s.appURL, rawToken)
	html := fmt.Sprintf(`<p>Your account has been created.</p>
<p>Click the link below to set your password:</p>
<a href="%s">%s</a>`, link, link)
	plain := fmt.Sprintf("Your account has been created.\n\nSet your password here: %s", link)
	return s.send(ctx, to, "Welcome! Set up your password", plain, html)
}

func (s *sendGridEmailService) SendResetEmail(ctx context.Context, to, rawToken string) error {
	link := resetLink(s.appURL, rawToken)
	html := fmt.Sprintf(`<p>You requested a password reset.</p>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>`, link, link)
	plain := fmt.Sprintf("You requested a password reset.\n\nReset your password here: %s", link)
	return s.send(ctx, to, "Password Reset Request", plain, html)
}

func (s *sendGridEmailService) send(ctx context.Context, to, subject, plain, html string) error {
	logger.ExternalServiceCall("SendGrid", "Send", "to", to, "subject", subject)

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.from), subject, mail.NewEmail("", to), plain, html)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("SendGrid", "Send", err, "to", to)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("SendGrid", "Send", err, "to", to)
		return err
	}

	logger.ExternalServiceResult("SendGrid", "Send", nil, "to", to, "status", response.StatusCode)
	return nil
}

// logEmailService writes the links to the log instead of mailing them.
type logEmailService struct {
	appURL string
	log    *slog.Logger
}

func NewLogEmailService(appURL string) EmailService {
	return &logEmailService{
		appURL: strings.TrimRight(appURL, "/"),
		log:    logger.WithService("email"),
	}
}

func (s *logEmailService) SendInitEmail(ctx context.Context, to, rawToken string) error {
	s.log.InfoContext(ctx, "Init email", "to", to, "link", initLink(s.appURL, rawToken))
	return nil
}

func (s *logEmailService) SendResetEmail(ctx context.Context, to, rawToken string) error {
	s.log.InfoContext(ctx, "Reset email", "to", to, "link", resetLink(s.appURL, rawToken))
	return nil
}

func initLink(appURL, token string) string {
	return appURL + "/auth/initialize-password/" + token
}

func resetLink(appURL, token string) string {
	return appURL + "/auth/reset-password/" + token
}
