package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-smtp"
	"github.com/welldanyogia/webrana-mailarchive/internal/mailparse"
	"github.com/welldanyogia/webrana-mailarchive/internal/validator"
)

// Session implements the go-smtp Session interface
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new SMTP session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain handles PLAIN authentication (not required for receiving)
func (s *Session) AuthPlain(username, password string) error {
	return nil
}

// Mail handles the MAIL FROM command
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	_, domainName, err := parseEmailAddress(to)
	if err != nil {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Invalid recipient address",
		}
	}

	if !s.backend.acceptsDomain(domainName) {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Domain not found",
		}
	}

	s.recipients = append(s.recipients, to)
	if s.backend.logger != nil {
		s.backend.logger.Debug("RCPT TO", slog.String("to", to))
	}
	return nil
}

// Data handles the DATA command - receives the email content
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	data, ok := mailparse.ParseRecord(raw, s.backend.Vendor(), s.backend.folder, s.backend.logger)
	if !ok {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Failed to parse email",
		}
	}
	applyEnvelope(data, s.from, s.recipients)

	ctx, cancel := context.WithTimeout(context.Background(), s.backend.saveTimeout)
	defer cancel()

	if err := s.backend.ingest.SaveMessage(ctx, data); err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to store email",
				slog.String("message_id", data.RFC822MessageID),
				slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary error",
		}
	}

	if s.backend.logger != nil {
		s.backend.logger.Info("email received",
			slog.String("from", s.from),
			slog.Int("recipients", len(s.recipients)),
			slog.String("message_id", data.RFC822MessageID),
			slog.String("subject", data.Subject))
	}
	return nil
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}

var errInvalidAddress = errors.New("invalid email address")

// parseEmailAddress splits a path address into lower-cased local part and
// normalized domain
func parseEmailAddress(address string) (localPart, domain string, err error) {
	localPart, domain, err = validator.EnvelopeAddress(address)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", errInvalidAddress, address, err)
	}
	return localPart, domain, nil
}
