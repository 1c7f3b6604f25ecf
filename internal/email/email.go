// Package email formats admin notifications and sends them over SMTP.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// FormatListingNotice builds the plain-text body announcing a listing that
// is waiting for review.
func FormatListingNotice(l *listing.Listing, baseURL string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "A new property listing is waiting for review.\n\n")
	fmt.Fprintf(&buf, "%s\n", l.Title)

	var details []string
	if l.PropertyType != "" {
		details = append(details, l.PropertyType)
	}
	details = append(details, fmt.Sprintf("for %s", l.ListingType))
	if l.Price > 0 {
		details = append(details, fmt.Sprintf("AED %s", formatWithCommas(int64(l.Price))))
	}
	if l.Beds > 0 {
		details = append(details, fmt.Sprintf("%d bed", l.Beds))
	}
	if l.Baths > 0 {
		details = append(details, fmt.Sprintf("%d bath", l.Baths))
	}
	if l.Area > 0 {
		details = append(details, fmt.Sprintf("%s sqft", formatWithCommas(int64(l.Area))))
	}
	fmt.Fprintf(&buf, "   %s\n", strings.Join(details, " | "))
	if l.Address != "" {
		fmt.Fprintf(&buf, "   %s\n", l.Address)
	}

	if l.ContactName != "" || l.ContactEmail != "" {
		fmt.Fprintf(&buf, "\nSubmitted by: %s", l.ContactName)
		if l.ContactEmail != "" {
			fmt.Fprintf(&buf, " <%s>", l.ContactEmail)
		}
		if l.ContactPhone != "" {
			fmt.Fprintf(&buf, ", %s", l.ContactPhone)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "\nReview it at %s/admin/listings/%d\n", strings.TrimRight(baseURL, "/"), l.ID)

	return buf.String()
}

// FormatMessageNotice builds the plain-text body for a new contact message.
func FormatMessageNotice(m *message.Message, baseURL string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "New message from %s <%s>", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Fprintf(&buf, ", %s", m.Phone)
	}
	fmt.Fprintln(&buf)
	if m.Subject != "" {
		fmt.Fprintf(&buf, "Subject: %s\n", m.Subject)
	}
	if m.PropertyID != nil {
		fmt.Fprintf(&buf, "About property #%d\n", *m.PropertyID)
	}

	fmt.Fprintf(&buf, "\n%s\n", m.Message)
	fmt.Fprintf(&buf, "\nOpen it at %s/admin/messages/%d\n", strings.TrimRight(baseURL, "/"), m.ID)

	return buf.String()
}

// headerSafe keeps submitted text from adding header lines.
var headerSafe = strings.NewReplacer("\r", " ", "\n", " ")

// Send sends an email via SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
func Send(cfg SMTPConfig, to []string, subject, body string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.From,
		strings.Join(to, ", "),
		headerSafe.Replace(subject),
		body,
	)

	addr := cfg.Host + ":" + cfg.Port

	if cfg.Port == "465" {
		return sendImplicitTLS(cfg, addr, to, msg)
	}
	return sendSTARTTLS(cfg, addr, to, msg)
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func sendImplicitTLS(cfg SMTPConfig, addr string, to []string, msg string) error {
	tlsCfg := &tls.Config{ServerName: cfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if cfg.User != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func sendSTARTTLS(cfg SMTPConfig, addr string, to []string, msg string) error {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, to, []byte(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func formatWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
