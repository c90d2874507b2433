// Package email sends the optional build completion notification. Builds
// run for hours; a short report beats watching a terminal.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

// Enabled reports whether enough configuration is present to send mail.
func Enabled(cfg SMTPConfig) bool {
	return strings.TrimSpace(cfg.User) != "" &&
		strings.TrimSpace(cfg.Pass) != "" &&
		strings.TrimSpace(cfg.To) != ""
}

func Send(cfg SMTPConfig, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)

	msg := strings.Builder{}
	msg.WriteString("From: " + cfg.User + "\r\n")
	msg.WriteString("To: " + cfg.To + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return smtp.SendMail(addr, auth, cfg.User, []string{cfg.To}, []byte(msg.String()))
}
