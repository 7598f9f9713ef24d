package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "noreply@example.com", "user", "pass", logger.NewNop())

	var gotAddr, gotFrom string
	var gotMsg []byte
	var gotAuth smtp.Auth
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotMsg, gotAuth = addr, from, msg, a
		return nil
	}

	require.NoError(t, s.Send(context.Background(), "ann@example.com", "Reminder", "<p>See you</p>"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.NotNil(t, gotAuth)
	assert.Contains(t, string(gotMsg), "Subject: Reminder\r\n")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=utf-8")
}

func TestSMTPSender_RelayError(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 25, "noreply@example.com", "", "", logger.NewNop())
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 mailbox unavailable")
	}

	assert.ErrorIs(t, s.Send(context.Background(), "ann@example.com", "s", "b"), ErrSendFailed)
}

func TestSMTPSender_ContextDeadline(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 25, "noreply@example.com", "", "", logger.NewNop())
	release := make(chan struct{})
	defer close(release)
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Send(ctx, "ann@example.com", "s", "b"), ErrSendFailed)
}
