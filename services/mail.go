package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer dispatches the verification link for a freshly issued token.
type Mailer interface {
	SendVerificationEmail(toEmail, token string) error
}

type SendGridMailer struct {
	apiKey  string
	from    string
	baseURL string
	log     *zap.SugaredLogger
}

func NewSendGridMailer(apiKey, from, baseURL string, log *zap.SugaredLogger) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from, baseURL: baseURL, log: log}
}

func (m *SendGridMailer) SendVerificationEmail(toEmail, token string) error {
	if m.apiKey == "" {
		m.log.Infow("SENDGRID_API_KEY not set, skipping verification email", "to", toEmail)
		return nil
	}

	link := fmt.Sprintf("%s/api/users/verify/%s", m.baseURL, token)
	plain := fmt.Sprintf("Please verify your email by clicking on the following link: %s", link)
	html := fmt.Sprintf(`<p>Please verify your email by clicking on the following link: <a href="%s">Verify Email</a></p>`, link)

	from := mail.NewEmail("Phonebook", m.from)
	to := mail.NewEmail(toEmail, toEmail)
	message := mail.NewSingleEmail(from, "Email Verification", to, plain, html)

	response, err := sendgrid.NewSendClient(m.apiKey).Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}
	return nil
}
