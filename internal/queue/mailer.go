package queue

import (
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Mailer delivers notification emails over SMTP. When no host is configured
// it falls back to appending each message to logs/notify.log, which keeps
// local development working without a mail server.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Send delivers a single plain-text message. The fallback log line contains
// the full body so verification codes remain retrievable during development.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil || m.Host == "" {
		return appendNotifyLog(fmt.Sprintf("[%s] to=%s subject=%q body=%q",
			time.Now().UTC().Format(time.RFC3339), to, subject, body))
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func appendNotifyLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "notify.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
