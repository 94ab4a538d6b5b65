package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/msageha/mcuwatch/internal/model"
)

const (
	DefaultSubject  = "[MCU] Error"
	DefaultSMTPPort = 25

	DefaultSMTPTimeout = 30 * time.Second
)

// SendMailFunc delivers msg through client. The default dials the relay.
type SendMailFunc func(client *mail.Client, msg *mail.Msg) error

// Mailer sends one plain-text email per event.
type Mailer struct {
	cfg  model.EmailConfig
	send SendMailFunc
	log  *slog.Logger
}

func NewMailer(cfg model.EmailConfig, log *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, send: dialAndSend, log: log}
}

func dialAndSend(client *mail.Client, msg *mail.Msg) error {
	return client.DialAndSend(msg)
}

// WithSendFunc replaces the SMTP transport.
func (m *Mailer) WithSendFunc(fn SendMailFunc) *Mailer {
	m.send = fn
	return m
}

func (m *Mailer) ReportError(ev Event) {
	if err := m.Send(ev); err != nil {
		m.log.Error("error email not sent", "error", err, "to", strings.Join(m.cfg.To, ","))
		return
	}
	m.log.Info("error email sent", "to", strings.Join(m.cfg.To, ","))
}

func (m *Mailer) Send(ev Event) error {
	if len(m.cfg.To) == 0 {
		return fmt.Errorf("no recipients configured")
	}
	msg, err := m.message(ev)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return err
	}
	if err := m.send(client, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", client.ServerAddr(), err)
	}
	return nil
}

// client speaks plain SMTP and upgrades with STARTTLS when the relay offers
// it. PLAIN auth is used only when a username is configured.
func (m *Mailer) client() (*mail.Client, error) {
	port := m.cfg.Port
	if port == 0 {
		port = DefaultSMTPPort
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(DefaultSMTPTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password))
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

func (m *Mailer) message(ev Event) (*mail.Msg, error) {
	subject := m.cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from address %q: %w", m.cfg.From, err)
	}
	if err := msg.To(m.cfg.To...); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(at)
	msg.SetMessageID()

	var b strings.Builder
	b.WriteString(ev.Summary())
	b.WriteString("\n")
	if ev.Operation != "" {
		fmt.Fprintf(&b, "operation: %s\n", ev.Operation)
	}
	fmt.Fprintf(&b, "kind: %s\n", ev.Kind)
	if ev.RunID != "" {
		fmt.Fprintf(&b, "run: %s\n", ev.RunID)
	}
	b.WriteString("\nLater faults within the cooldown window are recorded in the fault journal only.\n")
	msg.SetBodyString(mail.TypeTextPlain, b.String())
	return msg, nil
}
