package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SMTPSender отправляет письма через SMTP-релей.
// Если задан username, используется PLAIN-аутентификация.
type SMTPSender struct {
	host     string
	addr     string
	from     string
	username string
	password string
	log      Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender создает отправителя
func NewSMTPSender(host string, port int, from, username, password string, log Logger) *SMTPSender {
	host = strings.TrimSpace(host)
	return &SMTPSender{
		host:     host,
		addr:     fmt.Sprintf("%s:%d", host, port),
		from:     strings.TrimSpace(from),
		username: username,
		password: password,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) ProviderID() string {
	return "email-smtp"
}

// Send отправляет HTML-письмо. smtp.SendMail не принимает контекст,
// поэтому вызов выполняется в горутине и прерывается по ctx.Done().
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := buildMessage(s.from, to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, auth, s.from, []string{to}, []byte(msg))
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrSendFailed, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
	}

	s.log.Info("Email sent to=%s subject=%q", to, subject)
	return nil
}

// buildMessage минимальное RFC 5322 сообщение с HTML-телом
func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

// Message письмо, принятое mock-провайдером
type Message struct {
	To      string
	Subject string
	Body    string
}

// MockSender логирует письма вместо отправки
type MockSender struct {
	mu   sync.Mutex
	sent []Message
	log  Logger
}

func NewMockSender(log Logger) *MockSender {
	return &MockSender{log: log}
}

func (s *MockSender) ProviderID() string {
	return "email-mock"
}

func (s *MockSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	s.sent = append(s.sent, Message{To: to, Subject: subject, Body: body})
	s.mu.Unlock()

	s.log.Info("[MOCK EMAIL] to=%s subject=%q", to, subject)
	return nil
}

func (s *MockSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
