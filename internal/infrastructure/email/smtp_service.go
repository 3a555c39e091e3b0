package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

type EmailService interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	SendSubmissionNotice(ctx context.Context, to []string, data SubmissionNoticeData) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string // empty for unauthenticated relays such as mailpit
	Password string
	From     string
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	auth     smtp.Auth
}

func NewSMTPEmailService(cfg SMTPConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpEmailService{
		smtpAddr: cfg.Host + ":" + cfg.Port,
		smtpFrom: cfg.From,
		auth:     auth,
	}
}

var ErrNoRecipients = errors.New("email has no recipients")

func (s *smtpEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	if len(req.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.smtpFrom, strings.Join(req.To, ", "), req.Subject, req.Body))

	if err := smtp.SendMail(s.smtpAddr, s.auth, s.smtpFrom, req.To, msg); err != nil {
		log.Error().Err(err).Str("smtp_addr", s.smtpAddr).Strs("to", req.To).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendSubmissionNotice(ctx context.Context, to []string, data SubmissionNoticeData) error {
	subject := fmt.Sprintf("New celebrity submission: %s", data.Name)
	body := fmt.Sprintf(`A new profile was submitted for review.

Name:      %s
Category:  %s
Email:     %s
Phone:     %s
Submitted: %s

Review it at /admin/submissions/%s`,
		data.Name, data.Category, data.Email, data.Phone,
		data.SubmittedAt.UTC().Format("2006-01-02 15:04 MST"), data.SubmissionID)

	return s.SendEmail(ctx, EmailRequest{To: to, Subject: subject, Body: body})
}
