package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.block != nil {
		<-f.block
	}
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestMailer(t *testing.T, d dialer) *SMTPMailer {
	t.Helper()
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.test", Port: 2525, FromEmail: "noreply@devcamper.io", FromName: "DevCamper"}, zap.NewNop())
	require.NoError(t, err)
	m.d = d
	return m
}

func TestNewSMTPMailer_RequiresSettings(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "smtp.test"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	m := newTestMailer(t, d)

	err := m.Send(context.Background(), Message{To: "jane@example.com", Subject: "Password reset token", Text: "PUT http://x/reset"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.Equal(t, []string{"jane@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Password reset token"}, d.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PUT http://x/reset")
}

func TestSMTPMailer_SendErrors(t *testing.T) {
	m := newTestMailer(t, &fakeDialer{err: errors.New("relay down")})
	assert.Error(t, m.Send(context.Background(), Message{To: "a@b.c", Subject: "s", Text: "t"}))
	assert.Error(t, m.Send(context.Background(), Message{Subject: "s", Text: "t"}))
}

func TestSMTPMailer_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m := newTestMailer(t, &fakeDialer{block: block})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Send(ctx, Message{To: "a@b.c", Subject: "s", Text: "t"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
