// Package mailparse turns raw mailbox records into models.MessageData.
package mailparse

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/jhillyerd/enmime"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// NoSubject is used when a message has no Subject header
const NoSubject = "(no subject)"

// syntheticIDDomain is the right-hand side of generated Message-IDs
const syntheticIDDomain = "mailarchive.local"

// mimeParser keeps part bodies as they appear in the record. Transfer
// decoding is done per leaf by transferDecode; charsets are never converted,
// so stored parts keep their original bytes.
var mimeParser = enmime.NewParser(enmime.RawContent(true))

// ParseRecord parses one RFC 822 record. It returns false when the record
// cannot be parsed at all; the failure is logged, never raised.
func ParseRecord(raw []byte, vendor, folder string, log *slog.Logger) (*models.MessageData, bool) {
	log = logger.OrDiscard(log)

	h, err := readHeader(raw)
	if err != nil {
		log.Warn("Failed to parse message header", "error", err)
		return nil, false
	}

	root, err := mimeParser.ReadParts(bytes.NewReader(raw))
	if err != nil {
		log.Warn("Failed to parse MIME structure", "error", err)
		return nil, false
	}

	data := &models.MessageData{
		Vendor: models.CanonicalVendorName(vendor),
		Folder: folder,
	}

	data.RFC822MessageID = strings.TrimSpace(h.Get("Message-Id"))
	if data.RFC822MessageID == "" {
		data.RFC822MessageID = syntheticMessageID(raw)
		log.Debug("Message has no Message-ID, using synthetic id", "message_id", data.RFC822MessageID)
	}

	data.Subject = decodedText(h, "Subject")
	if data.Subject == "" {
		data.Subject = NoSubject
	}
	data.DateSent, data.DateReceived = parseDate(h, time.Now())
	data.InReplyTo = optionalText(h, "In-Reply-To")
	data.ReferencesList = optionalText(h, "References")

	w := &partWalker{log: log.With("message_id", data.RFC822MessageID)}
	w.walk(root, nil)
	data.Parts = w.parts

	data.From = parseAddresses(h, "From", log)
	data.To = parseAddresses(h, "To", log)
	data.Cc = parseAddresses(h, "Cc", log)
	data.Bcc = parseAddresses(h, "Bcc", log)

	return data, true
}

// syntheticMessageID derives a stable id from the record bytes so that
// re-reading the same mailbox stays idempotent
func syntheticMessageID(raw []byte) string {
	return fmt.Sprintf("<%x@%s>", sha256.Sum256(raw), syntheticIDDomain)
}

// partWalker flattens an enmime part tree depth-first, pre-order.
// Containers are emitted before their children so that a child's
// ParentPartOrder always refers to an earlier part.
type partWalker struct {
	parts []models.MessagePartData
	next  int
	log   *slog.Logger
}

func (w *partWalker) walk(p *enmime.Part, parent *int) {
	if p == nil {
		return
	}

	if isContainer(p) {
		order := w.next
		w.next++

		fields := baseFields(p)
		fields.PartOrder = order
		fields.IsAttachment = false
		w.parts = append(w.parts, models.MessagePartData{PartFields: fields, ParentPartOrder: parent})

		for c := p.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, &order)
		}
		return
	}

	fields, err := leafFields(p)
	if err != nil {
		w.log.Warn("Skipping MIME part", "part", p.PartID, "error", err)
		return
	}
	fields.PartOrder = w.next
	w.next++
	w.parts = append(w.parts, models.MessagePartData{PartFields: fields, ParentPartOrder: parent})
}

func isContainer(p *enmime.Part) bool {
	return p.FirstChild != nil || strings.HasPrefix(strings.ToLower(p.ContentType), "multipart/")
}

// baseFields extracts the MIME metadata common to containers and leaves
func baseFields(p *enmime.Part) models.PartFields {
	var f models.PartFields
	f.MimeType, f.MimeSubtype = splitMediaType(p.ContentType, p.Header.Get("Content-Type") != "")
	f.Filename = optional(p.FileName)
	f.ContentID = optional(strings.Trim(strings.TrimSpace(p.ContentID), "<>"))
	f.ContentDisposition = optional(strings.ToLower(p.Disposition))
	return f
}

// leafFields adds the payload of a leaf. A leaf whose body could not be
// decoded at all is reported as an error.
func leafFields(p *enmime.Part) (models.PartFields, error) {
	f := baseFields(p)

	for _, e := range p.Errors {
		if e != nil && e.Severe && len(p.Content) == 0 {
			return f, fmt.Errorf("%s: %s", e.Name, e.Detail)
		}
	}

	content, err := transferDecode(p.Header.Get("Content-Transfer-Encoding"), p.Content)
	if err != nil {
		return f, err
	}

	f.Content = content
	size := int64(len(f.Content))
	f.SizeBytes = &size
	f.IsAttachment = (f.ContentDisposition != nil && *f.ContentDisposition == "attachment") || f.Filename != nil
	return f, nil
}

// transferDecode undoes base64 or quoted-printable. The entity header
// carries no charset, so text bodies come back byte for byte. An unknown
// encoding keeps the body as it is.
func transferDecode(cte string, body []byte) ([]byte, error) {
	var h message.Header
	if cte != "" {
		h.Set("Content-Transfer-Encoding", cte)
	}

	e, err := message.New(h, bytes.NewReader(body))
	if message.IsUnknownEncoding(err) {
		return append([]byte{}, body...), nil
	}
	if err != nil {
		return nil, err
	}

	out, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s body: %w", cte, err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// splitMediaType splits "type/subtype". A missing Content-Type header means
// text/plain; an unusable one means application/octet-stream.
func splitMediaType(contentType string, hasHeader bool) (string, string) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		if !hasHeader {
			return "text", "plain"
		}
		return "application", "octet-stream"
	}

	mt, st, _ := strings.Cut(ct, "/")
	if mt == "" {
		mt = "application"
	}
	if st == "" {
		st = "octet-stream"
	}
	return mt, st
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
