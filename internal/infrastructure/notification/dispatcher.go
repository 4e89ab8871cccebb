package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"slotzi.backend/internal/config"
	"slotzi.backend/internal/domain/services"
	"slotzi.backend/pkg/logger"
)

const (
	businessVerifyPath = "/verify/business"
	relationVerifyPath = "/verify/relation"
)

// sendFunc matches smtp.SendMail so tests can capture outgoing messages.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPDispatcher delivers verification and support mail over SMTP
type SMTPDispatcher struct {
	cfg     config.SMTPConfig
	baseURL string
	send    sendFunc
}

// NewEmailDispatcher picks the SMTP dispatcher when a host is configured
// and the log-only dispatcher otherwise.
func NewEmailDispatcher(smtpCfg config.SMTPConfig, publicBaseURL string) services.EmailDispatcher {
	if !smtpCfg.Enabled() {
		return NewLogDispatcher(publicBaseURL)
	}
	return NewSMTPDispatcher(smtpCfg, publicBaseURL)
}

func NewSMTPDispatcher(smtpCfg config.SMTPConfig, publicBaseURL string) *SMTPDispatcher {
	return &SMTPDispatcher{
		cfg:     smtpCfg,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		send:    smtp.SendMail,
	}
}

func (d *SMTPDispatcher) SendBusinessVerification(ctx context.Context, to, token string) error {
	link := verificationLink(d.baseURL, businessVerifyPath, token)
	body := "Please verify your business email address by opening the link below.\r\n\r\n" + link + "\r\n"
	return d.deliver(ctx, to, "Verify your business email", body)
}

func (d *SMTPDispatcher) SendRelationVerification(ctx context.Context, to, token string) error {
	link := verificationLink(d.baseURL, relationVerifyPath, token)
	body := "A new user was added to your business. Approve the request by opening the link below.\r\n\r\n" + link + "\r\n"
	return d.deliver(ctx, to, "Approve business user", body)
}

func (d *SMTPDispatcher) SendSupportEmail(ctx context.Context, to, subject, body string) error {
	return d.deliver(ctx, to, subject, body)
}

func (d *SMTPDispatcher) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("invalid mail header")
	}

	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}

	addr := d.cfg.Host + ":" + strconv.Itoa(d.cfg.Port)
	if err := d.send(addr, auth, envelopeAddress(d.cfg.From), []string{to}, buildMessage(d.cfg.From, to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	logger.Debug(ctx, "Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// LogDispatcher writes mail to the log instead of sending it
type LogDispatcher struct {
	baseURL string
}

func NewLogDispatcher(publicBaseURL string) *LogDispatcher {
	return &LogDispatcher{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (d *LogDispatcher) SendBusinessVerification(ctx context.Context, to, token string) error {
	logger.Info(ctx, "Business verification mail",
		zap.String("to", to),
		zap.String("link", verificationLink(d.baseURL, businessVerifyPath, token)),
	)
	return nil
}

func (d *LogDispatcher) SendRelationVerification(ctx context.Context, to, token string) error {
	logger.Info(ctx, "Relation verification mail",
		zap.String("to", to),
		zap.String("link", verificationLink(d.baseURL, relationVerifyPath, token)),
	)
	return nil
}

func (d *LogDispatcher) SendSupportEmail(ctx context.Context, to, subject, _ string) error {
	logger.Info(ctx, "Support mail", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func verificationLink(baseURL, path, token string) string {
	return baseURL + path + "?token=" + url.QueryEscape(token)
}

// envelopeAddress strips a display name: "SlotZi <a@b>" becomes "a@b".
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return strings.TrimSpace(from)
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
