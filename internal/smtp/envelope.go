package smtp

import (
	"strings"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// applyEnvelope fills in what the headers leave out. The envelope sender
// stands in for a missing From, and recipients named in neither To nor Cc
// were blind copies.
func applyEnvelope(data *models.MessageData, from string, recipients []string) {
	if len(data.From) == 0 {
		if email := envelopeAddress(from); models.ValidEmail(email) {
			data.From = []models.MessageAddressData{{Email: email}}
		}
	}

	visible := make(map[string]struct{}, len(data.To)+len(data.Cc)+len(data.Bcc))
	for _, list := range [][]models.MessageAddressData{data.To, data.Cc, data.Bcc} {
		for _, a := range list {
			visible[a.Email] = struct{}{}
		}
	}

	for _, rcpt := range recipients {
		email := envelopeAddress(rcpt)
		if !models.ValidEmail(email) {
			continue
		}
		if _, ok := visible[email]; ok {
			continue
		}
		visible[email] = struct{}{}
		data.Bcc = append(data.Bcc, models.MessageAddressData{Email: email})
	}
}

func envelopeAddress(s string) string {
	return models.NormalizeEmail(strings.Trim(s, "<> "))
}
