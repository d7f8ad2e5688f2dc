// Package email notifies the department administrator about visitor
// registrations over SMTP.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/officeportal/portal/internal/visitor"
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

// Notifier sends registration notices to the admin. In dev mode (or when
// SMTP is unconfigured) the notice is printed instead of sent.
type Notifier struct {
	cfg        SMTPConfig
	adminEmail string
	devMode    bool
}

// NewNotifier creates a notifier for the given admin address.
func NewNotifier(cfg SMTPConfig, adminEmail string, devMode bool) *Notifier {
	return &Notifier{cfg: cfg, adminEmail: adminEmail, devMode: devMode}
}

// RegistrationReceived notifies the admin that a registration was
// created or edited. The visitor's name and contact are forwarded, per
// the registration form's notice.
func (n *Notifier) RegistrationReceived(rec *visitor.Record, edited bool) error {
	if n.adminEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Visitor registration: %s visits %s on %s", rec.Name, rec.Department, rec.VisitStartDate)
	if edited {
		subject = "Updated " + subject
	}
	body := FormatRegistrationNotice(rec)

	if n.devMode || !n.cfg.IsConfigured() {
		fmt.Printf("[DEV] Notice for %s:\n%s\n", n.adminEmail, body)
		return nil
	}

	return Send(n.cfg, []string{n.adminEmail}, subject, body)
}

// FormatRegistrationNotice builds a plain-text notification body.
func FormatRegistrationNotice(rec *visitor.Record) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "A visitor registration for %s:\n\n", rec.Department)
	fmt.Fprintf(&buf, "Name:     %s\n", rec.Name)
	fmt.Fprintf(&buf, "Email:    %s\n", rec.Email)
	fmt.Fprintf(&buf, "Contact:  %s\n", rec.Phone)
	if rec.VisitEndDate != rec.VisitStartDate {
		fmt.Fprintf(&buf, "Dates:    %s ~ %s\n", rec.VisitStartDate, rec.VisitEndDate)
	} else {
		fmt.Fprintf(&buf, "Date:     %s\n", rec.VisitStartDate)
	}
	fmt.Fprintf(&buf, "Visiting: %s\n", rec.VisitTarget)
	fmt.Fprintf(&buf, "Purpose:  %s\n", rec.VisitPurpose)
	fmt.Fprintf(&buf, "\nStatus: %s\n", rec.Status.Label())

	return buf.String()
}

// Send sends an email via SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
func Send(cfg SMTPConfig, to []string, subject, body string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.From,
		strings.Join(to, ", "),
		subject,
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
