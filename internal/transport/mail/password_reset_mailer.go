package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strings"
)

// PasswordResetMailer delivers password reset links over SMTP. Delivery is
// best effort; the auth flow acknowledges the request regardless of outcome.
type PasswordResetMailer struct {
	host         string
	port         string
	username     string
	password     string
	from         string
	frontendBase string
}

func NewPasswordResetMailer(host, port, username, password, from, frontendBase string) *PasswordResetMailer {
	return &PasswordResetMailer{
		host:         strings.TrimSpace(host),
		port:         strings.TrimSpace(port),
		username:     username,
		password:     password,
		from:         strings.TrimSpace(from),
		frontendBase: strings.TrimRight(strings.TrimSpace(frontendBase), "/"),
	}
}

func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", m.frontendBase, url.QueryEscape(token))
	subject := "Reset your NextTalk password"
	body := fmt.Sprintf("Follow this link to reset your password: %s\n\nThe link expires in one hour. If you did not request this, ignore this email.", resetURL)

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}
