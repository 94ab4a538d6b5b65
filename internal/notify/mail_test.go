package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/msageha/mcuwatch/internal/fault"
	"github.com/msageha/mcuwatch/internal/model"
)

type capturedMail struct {
	addr string
	msg  *gomail.Msg
}

func (c *capturedMail) send(client *gomail.Client, msg *gomail.Msg) error {
	c.addr, c.msg = client.ServerAddr(), msg
	return nil
}

func (c *capturedMail) body(t *testing.T) string {
	t.Helper()
	parts := c.msg.GetParts()
	require.Len(t, parts, 1)
	content, err := parts[0].GetContent()
	require.NoError(t, err)
	return string(content)
}

func (c *capturedMail) raw(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := c.msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestMailer_Send(t *testing.T) {
	cfg := model.EmailConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		Username: "watchdog",
		Password: "pw",
		From:     "mcuwatch@example.com",
		To:       []string{"ops@example.com", "av@example.com"},
	}
	var got capturedMail
	m := NewMailer(cfg, discardLogger()).WithSendFunc(got.send)

	err := m.Send(NewEvent(t0, fault.Transport("participant.status", errors.New("timeout")), "board", "room-a"))
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", got.addr)
	from, err := got.msg.GetSender(false)
	require.NoError(t, err)
	assert.Equal(t, "mcuwatch@example.com", from)
	rcpts, err := got.msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, cfg.To, rcpts)
	assert.Equal(t, []string{DefaultSubject}, got.msg.GetGenHeader(gomail.HeaderSubject))
	assert.NotEmpty(t, got.msg.GetGenHeader(gomail.HeaderMessageID))
	assert.NotEmpty(t, got.msg.GetGenHeader(gomail.HeaderDate))

	body := got.body(t)
	assert.Contains(t, body, "board | room-a | transport fault")
	assert.Contains(t, body, "operation: participant.status")
}

func TestMailer_DefaultPort(t *testing.T) {
	var got capturedMail
	m := NewMailer(model.EmailConfig{Host: "mail", From: "a@b.c", To: []string{"x@y.z"}, Subject: "[MCU] lab"}, discardLogger()).
		WithSendFunc(got.send)

	require.NoError(t, m.Send(Event{Message: "m"}))
	assert.Equal(t, "mail:25", got.addr)
	assert.Equal(t, []string{"[MCU] lab"}, got.msg.GetGenHeader(gomail.HeaderSubject))
}

func TestMailer_NonASCIISubjectIsEncoded(t *testing.T) {
	var got capturedMail
	m := NewMailer(model.EmailConfig{Host: "mail", From: "a@b.c", To: []string{"x@y.z"}, Subject: "[MCU] Störung Konferenzraum"}, discardLogger()).
		WithSendFunc(got.send)

	require.NoError(t, m.Send(Event{Message: "m"}))
	raw := got.raw(t)
	assert.NotContains(t, raw, "Störung")
	assert.Contains(t, raw, "Subject: =?UTF-8?")
	assert.Contains(t, raw, "Message-ID: <")
}

func TestMailer_Failures(t *testing.T) {
	m := NewMailer(model.EmailConfig{Host: "mail", From: "a@b.c"}, discardLogger())
	assert.Error(t, m.Send(Event{Message: "m"}), "no recipients")

	m = NewMailer(model.EmailConfig{Host: "mail", From: "not an address", To: []string{"x@y.z"}}, discardLogger())
	assert.ErrorContains(t, m.Send(Event{Message: "m"}), "from address")

	m = NewMailer(model.EmailConfig{Host: "mail", From: "a@b.c", To: []string{"x@y.z"}}, discardLogger()).
		WithSendFunc(func(*gomail.Client, *gomail.Msg) error { return errors.New("421 try later") })
	err := m.Send(Event{Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "421 try later")
	assert.Contains(t, err.Error(), "mail:25")

	m.ReportError(Event{Message: "fire and forget"})
}
