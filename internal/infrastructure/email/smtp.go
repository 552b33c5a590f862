package email

import (
	"context"
	"fmt"
	"io"
	"mime"

	"gopkg.in/gomail.v2"

	"github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/shared/config"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPConfigFrom maps the email section of the application config.
func SMTPConfigFrom(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}
}

// SMTPMailer sends report mails with an attached export over SMTP.
type SMTPMailer struct {
	config SMTPConfig
	send   func(m ...*gomail.Message) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return &SMTPMailer{
		config: cfg,
		send:   dialer.DialAndSend,
	}
}

func (s *SMTPMailer) SendReport(ctx context.Context, to []string, subject, htmlBody string, attachment usecases.Attachment) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if len(attachment.Data) > 0 {
		data := attachment.Data
		m.Attach(attachment.Filename,
			gomail.SetHeader(map[string][]string{
				"Content-Type": {mime.FormatMediaType(attachment.ContentType, nil)},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
