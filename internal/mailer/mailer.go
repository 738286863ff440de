// File: internal/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
)

// Message 純文字郵件
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender 寄送郵件；忘記密碼流程依賴此介面
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var smtpSendMail = smtp.SendMail

// SMTPSender 透過 SMTP 寄信，未設定帳號時不做 AUTH
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     mail.Address
}

func NewSMTPSender(host string, port int, username, password, fromName, fromEmail string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     mail.Address{Name: fromName, Address: fromEmail},
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.Host == "" {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	if err := smtpSendMail(addr, auth, s.From.Address, []string{msg.To}, s.compose(msg)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) compose(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.From.String() + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))
	return []byte(b.String())
}

// FakeSender 測試用
type FakeSender struct {
	SendFn func(ctx context.Context, msg Message) error
	Sent   []Message
}

func (f *FakeSender) Send(ctx context.Context, msg Message) error {
	f.Sent = append(f.Sent, msg)
	if f.SendFn != nil {
		return f.SendFn(ctx, msg)
	}
	return nil
}
