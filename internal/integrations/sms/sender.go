package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// WebhookSender отправляет SMS через HTTP-шлюз: POST {to, body} с Bearer-токеном
type WebhookSender struct {
	url        string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewWebhookSender создает отправителя; timeout ограничивает один HTTP-вызов
func NewWebhookSender(url, token string, timeout time.Duration, log Logger) *WebhookSender {
	return &WebhookSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (s *WebhookSender) ProviderID() string {
	return "sms-webhook"
}

// Send отправляет сообщение на номер в формате E.164
func (s *WebhookSender) Send(ctx context.Context, to, body string) error {
	if s.url == "" {
		return ErrNotConfigured
	}

	raw, err := json.Marshal(webhookPayload{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, string(respBody))
	}

	s.log.Info("SMS sent via webhook to=%s", to)
	return nil
}

// Message отправленное mock-провайдером сообщение
type Message struct {
	To   string
	Body string
}

// MockSender не отправляет сообщения, а логирует и запоминает их.
// Используется при выключенном канале и в локальной разработке.
type MockSender struct {
	mu   sync.Mutex
	sent []Message
	log  Logger
}

func NewMockSender(log Logger) *MockSender {
	return &MockSender{log: log}
}

func (s *MockSender) ProviderID() string {
	return "sms-mock"
}

func (s *MockSender) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	s.sent = append(s.sent, Message{To: to, Body: body})
	s.mu.Unlock()

	s.log.Info("[MOCK SMS] to=%s body=%q", to, body)
	return nil
}

// Sent возвращает копию отправленных сообщений
func (s *MockSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
