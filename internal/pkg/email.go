package pkg

import (
	cryptoRand "crypto/rand"
	"crypto/tls"
	"fmt"
	"html"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // 显示的发件人，可与 Username 相同
}

// Mailer 发送 HTML 邮件
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(msg)
}

// LogMailer 未配置 SMTP 时只打日志
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(to, subject, htmlBody string) error {
	m.Logger.Info("email not sent, smtp disabled", "to", to, "subject", subject, "body", htmlBody)
	return nil
}

func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

func EmailCodeHTML(username, code string, ttl time.Duration) string {
	return fmt.Sprintf(`<p>Hello, %s.</p><p>Your password reset code is <b style="font-size:18px;">%s</b>.</p><p>It expires in %d minutes. Ignore this email if you did not request a reset.</p>`,
		html.EscapeString(username), code, int(ttl.Minutes()))
}
