package email

import (
	"fmt"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
)

// Notifier tells the admin about new submissions. With SMTP unset or no
// recipient it does nothing.
type Notifier struct {
	cfg     SMTPConfig
	to      string
	baseURL string
	send    func(cfg SMTPConfig, to []string, subject, body string) error
}

// NewNotifier creates a notifier that mails to.
func NewNotifier(cfg SMTPConfig, to, baseURL string) *Notifier {
	return &Notifier{cfg: cfg, to: to, baseURL: baseURL, send: Send}
}

// Enabled reports whether notifications will be sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.cfg.IsConfigured() && n.to != ""
}

// ListingSubmitted mails a review request for l.
func (n *Notifier) ListingSubmitted(l *listing.Listing) error {
	if !n.Enabled() {
		return nil
	}
	subject := fmt.Sprintf("Listing awaiting review: %s", l.Title)
	return n.send(n.cfg, []string{n.to}, subject, FormatListingNotice(l, n.baseURL))
}

// MessageReceived mails a copy of m.
func (n *Notifier) MessageReceived(m *message.Message) error {
	if !n.Enabled() {
		return nil
	}
	subject := "New contact message"
	if m.Subject != "" {
		subject += ": " + m.Subject
	}
	return n.send(n.cfg, []string{n.to}, subject, FormatMessageNotice(m, n.baseURL))
}
