package mailparse

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// readHeader parses the RFC 822 header block of raw. Records without a body
// separator are accepted.
func readHeader(raw []byte) (*gomail.Header, error) {
	br := bufio.NewReader(io.MultiReader(bytes.NewReader(raw), strings.NewReader("\r\n\r\n")))
	th, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, err
	}
	return &gomail.Header{Header: message.Header{Header: th}}, nil
}

// decodedText decodes RFC 2047 encoded words, falling back to the raw value
func decodedText(h *gomail.Header, key string) string {
	raw := unfold(h.Get(key))
	text, err := h.Text(key)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(unfold(text))
}

func optionalText(h *gomail.Header, key string) *string {
	return optional(decodedText(h, key))
}

// parseDate returns (sent, received). A missing Date leaves sent nil and
// uses now for received; an unparseable Date uses now for both.
func parseDate(h *gomail.Header, now time.Time) (*time.Time, time.Time) {
	if strings.TrimSpace(h.Get("Date")) == "" {
		return nil, now
	}
	t, err := h.Date()
	if err != nil || t.IsZero() {
		return &now, now
	}
	return &t, t
}

// parseAddresses collects every occurrence of the header, normalizes the
// emails and dedupes them. The first display name seen for an email wins.
func parseAddresses(h *gomail.Header, key string, log *slog.Logger) []models.MessageAddressData {
	var out []models.MessageAddressData
	seen := make(map[string]struct{})

	fields := h.FieldsByKey(key)
	for fields.Next() {
		value := unfold(fields.Value())
		for _, addr := range parseAddressList(value, log) {
			email := models.NormalizeEmail(addr.Address)
			if !models.ValidEmail(email) {
				continue
			}
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			out = append(out, models.MessageAddressData{
				Email:       email,
				DisplayName: optional(strings.TrimSpace(addr.Name)),
			})
		}
	}
	return out
}

// parseAddressList parses a header value, retrying element by element
// when the list as a whole is malformed
func parseAddressList(value string, log *slog.Logger) []*mail.Address {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	list, err := gomail.ParseAddressList(value)
	if err == nil {
		return list
	}
	log.Debug("Address list malformed, parsing elements", "value", value, "error", err)

	var out []*mail.Address
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		if addr, err := gomail.ParseAddress(elem); err == nil {
			out = append(out, addr)
			continue
		}
		// Bare address with stray characters around it
		bare := strings.Trim(elem, "<>\"' ")
		if strings.Contains(bare, "@") && !strings.ContainsAny(bare, " <>") {
			out = append(out, &mail.Address{Address: bare})
		}
	}
	return out
}

func unfold(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "").Replace(s)
}
