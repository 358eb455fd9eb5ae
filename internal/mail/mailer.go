// Package mail delivers outbound account mail through an SMTP relay.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
	"github.com/emersion/go-msgauth/dkim"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Config describes the relay and the optional DKIM signer.
type Config struct {
	Addr     string
	From     string
	Username string
	Password string

	DKIMDomain   string
	DKIMSelector string
	Key          *auth.SigningKey
}

type Mailer struct {
	cfg  Config
	now  func() time.Time
	send func(ctx context.Context, addr string, a sasl.Client, from string, to []string, msg []byte) error
}

const dialTimeout = 10 * time.Second

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, now: time.Now, send: sendMail}
}

// Enabled reports whether a relay is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Addr != ""
}

// SendWelcome mails the new account holder.
func (m *Mailer) SendWelcome(ctx context.Context, account models.Account) error {
	msg, err := m.WelcomeMessage(account)
	if err != nil {
		return err
	}
	return m.deliver(ctx, account.Email, msg)
}

// WelcomeMessage renders the RFC 5322 welcome message, DKIM-signed when a domain and key are set.
func (m *Mailer) WelcomeMessage(account models.Account) ([]byte, error) {
	id, err := auth.GenerateNonce()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, headerSafe(v))
	}
	header("From", "PrepWise <"+m.cfg.From+">")
	header("To", account.Email)
	header("Subject", "Welcome to PrepWise")
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+id[:32]+"@"+senderDomain(m.cfg.From)+">")
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	buf.WriteString("\r\n")
	fmt.Fprintf(&buf, "Hi %s,\r\n\r\n", headerSafe(account.Name))
	buf.WriteString("Your PrepWise account is ready. Sign in to start practicing job interviews with AI.\r\n\r\n")
	buf.WriteString("If you did not create this account, you can ignore this message.\r\n")

	return m.sign(buf.Bytes())
}

func (m *Mailer) sign(msg []byte) ([]byte, error) {
	if m.cfg.DKIMDomain == "" || m.cfg.Key == nil {
		return msg, nil
	}
	var signed bytes.Buffer
	err := dkim.Sign(&signed, bytes.NewReader(msg), &dkim.SignOptions{
		Domain:     m.cfg.DKIMDomain,
		Selector:   m.cfg.DKIMSelector,
		Signer:     m.cfg.Key.PrivateKey,
		HeaderKeys: []string{"From", "To", "Subject", "Date", "Message-ID"},
	})
	if err != nil {
		return nil, fmt.Errorf("dkim sign: %w", err)
	}
	return signed.Bytes(), nil
}

func (m *Mailer) deliver(ctx context.Context, to string, msg []byte) error {
	if !m.Enabled() {
		logging.DebugLog("Mail relay not configured; skipping [%s]", utils.HashEmail(to))
		return nil
	}
	var client sasl.Client
	if m.cfg.Username != "" {
		client = sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	}

	if err := m.send(ctx, m.cfg.Addr, client, m.cfg.From, []string{to}, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// sendMail runs one SMTP transaction. Every read and write on the connection
// is bounded by ctx: its deadline becomes the conn deadline and cancellation
// expires the conn immediately.
func sendMail(ctx context.Context, addr string, a sasl.Client, from string, to []string, msg []byte) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c := smtp.NewClient(conn)
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		host, _, _ := net.SplitHostPort(addr)
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return err
	}
	return c.Quit()
}

var headerReplacer = strings.NewReplacer("\r", "", "\n", "")

func headerSafe(v string) string {
	return headerReplacer.Replace(v)
}

func senderDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return "localhost"
}
