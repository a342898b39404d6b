package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"GoldSentinel/internal/model"
)

// implicitTLSPort is the SMTPS port; other ports use STARTTLS when offered.
const implicitTLSPort = 465

// EmailChannel sends plain-text UTF-8 mail through an SMTP relay.
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration

	// send transmits a finished message. Replaced in tests.
	send func(ctx context.Context, to string, msg []byte) error
	now  func() time.Time
}

// NewEmailChannel creates an SMTP channel. from defaults to username.
func NewEmailChannel(host string, port int, username, password, from string) *EmailChannel {
	if from == "" {
		from = username
	}
	e := &EmailChannel{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Timeout:  30 * time.Second,
		now:      time.Now,
	}
	e.send = e.smtpSend
	return e
}

func (e *EmailChannel) Send(ctx context.Context, d model.Delivery) error {
	msg := buildMessage(e.From, d, e.now())
	return e.send(ctx, d.Recipient.Address, msg)
}

// buildMessage renders the MIME message. The subject is RFC 2047 encoded and
// the body base64 encoded so non-ASCII text survives any relay.
func buildMessage(from string, d model.Delivery, date time.Time) []byte {
	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("From", from)
	header("To", d.Recipient.Address)
	header("Subject", mime.BEncoding.Encode("UTF-8", d.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "base64")
	if d.Urgent {
		header("X-Priority", "1")
		header("X-MSMail-Priority", "High")
		header("Importance", "High")
	}
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(d.Body))
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	return b.Bytes()
}

func (e *EmailChannel) smtpSend(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
	dialer := &net.Dialer{Timeout: e.Timeout}
	tlsConfig := &tls.Config{ServerName: e.Host}

	var conn net.Conn
	var err error
	if e.Port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	deadline := time.Now().Add(e.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if e.Port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if e.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", e.Username, e.Password, e.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(e.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return c.Quit()
}
