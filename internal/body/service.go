// Package body rebuilds display-ready message bodies from stored parts.
package body

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"github.com/welldanyogia/webrana-mailarchive/internal/validator"
)

// Owner scopes a message lookup to a vendor and folder
type Owner struct {
	VendorID uint
	FolderID uint
}

// Service defines the body reconstruction operations
type Service interface {
	// GetMessageBody returns the first plain and first HTML body of a
	// message, the HTML sanitized with inline images pointing at build
	// URLs, plus the attachment list. A non-nil owner must match.
	GetMessageBody(ctx context.Context, messageID uint, build URLBuilder, owner *Owner) (*models.MessageBody, error)

	// GetMessagePartContent returns the raw bytes of one part
	GetMessagePartContent(ctx context.Context, vendorID, folderID, messageID, partID uint) (*models.PartContent, error)
}

// service implements Service
type service struct {
	repos     repository.Repositories
	sanitizer *Sanitizer
	log       *slog.Logger
}

// NewService creates a new body Service
func NewService(repos repository.Repositories, log *slog.Logger) Service {
	return &service{
		repos:     repos,
		sanitizer: NewSanitizer(),
		log:       logger.OrDiscard(log).With("component", "body"),
	}
}

func (s *service) GetMessageBody(ctx context.Context, messageID uint, build URLBuilder, owner *Owner) (*models.MessageBody, error) {
	if err := s.checkMessage(ctx, messageID, owner); err != nil {
		return nil, err
	}

	parts, err := s.repos.Parts.ListByMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}

	var attachments []models.MessagePart
	var plain, rich *models.MessagePart
	for i := range parts {
		p := &parts[i]
		switch {
		case p.IsAttachment:
			attachments = append(attachments, *p)
		case plain == nil && p.Is("text", "plain"):
			plain = p
		case rich == nil && p.Is("text", "html"):
			rich = p
		}
	}

	result := &models.MessageBody{MessageID: messageID, Attachments: []models.AttachmentInfo{}}

	var textEnc, htmlEnc string
	if plain != nil {
		if text, enc, ok := Decode(plain.Content); ok {
			result.Text, textEnc = &text, enc
		}
	}

	referenced := map[uint]bool{}
	if rich != nil {
		if raw, enc, ok := Decode(rich.Content); ok {
			htmlEnc = enc
			var rewritten string
			rewritten, referenced = rewriteCIDs(raw, cidMap(parts), build)
			clean := s.sanitizer.Sanitize(rewritten)
			result.HTML = &clean
		}
	}

	switch {
	case htmlEnc != "":
		result.Encoding = &htmlEnc
	case textEnc != "":
		result.Encoding = &textEnc
	}

	for _, p := range attachments {
		if referenced[p.ID] {
			continue
		}
		result.Attachments = append(result.Attachments, attachmentInfo(p, build))
	}

	s.log.Debug("Rebuilt message body",
		"message_id", messageID,
		"parts", len(parts),
		"attachments", len(result.Attachments),
	)
	return result, nil
}

func (s *service) GetMessagePartContent(ctx context.Context, vendorID, folderID, messageID, partID uint) (*models.PartContent, error) {
	if err := s.checkMessage(ctx, messageID, &Owner{VendorID: vendorID, FolderID: folderID}); err != nil {
		return nil, err
	}

	part, err := s.repos.Parts.GetForMessage(ctx, messageID, partID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("part %d of message %d: %w", partID, messageID, apperrors.ErrPartNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load part: %w", err)
	}

	if len(part.Content) == 0 {
		return nil, fmt.Errorf("part %d: %w", partID, apperrors.ErrContentNotAvailable)
	}

	content := &models.PartContent{
		Content:   part.Content,
		MediaType: part.MediaType(),
		Headers:   map[string]string{},
	}
	if isAttachment(part) {
		name := validator.DefaultFilename
		if part.Filename != nil {
			name = validator.Filename(*part.Filename)
		}
		content.Headers["Content-Disposition"] = contentDisposition(name)
	}
	return content, nil
}

// checkMessage verifies the message exists and, with an owner, belongs to it
func (s *service) checkMessage(ctx context.Context, messageID uint, owner *Owner) error {
	var err error
	if owner != nil {
		_, err = s.repos.Messages.GetOwned(ctx, messageID, owner.VendorID, owner.FolderID)
	} else {
		_, err = s.repos.Messages.GetByID(ctx, messageID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("message %d: %w", messageID, apperrors.ErrMessageNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load message: %w", err)
	}
	return nil
}

func attachmentInfo(p models.MessagePart, build URLBuilder) models.AttachmentInfo {
	info := models.AttachmentInfo{
		PartID:      p.ID,
		Filename:    p.Filename,
		MimeType:    p.MimeType,
		MimeSubtype: p.MimeSubtype,
		SizeBytes:   p.SizeBytes,
		ContentID:   p.ContentID,
		IsInline:    p.ContentDisposition != nil && strings.EqualFold(*p.ContentDisposition, "inline"),
		ContentURL:  build(p.ID),
	}
	if p.Filename != nil {
		name := validator.Filename(*p.Filename)
		info.Filename = &name
	}
	if info.MimeType == "" {
		info.MimeType = "application"
	}
	if info.MimeSubtype == "" {
		info.MimeSubtype = "octet-stream"
	}
	return info
}

func isAttachment(p *models.MessagePart) bool {
	if p.IsAttachment {
		return true
	}
	return p.ContentDisposition != nil &&
		strings.HasPrefix(strings.ToLower(strings.TrimSpace(*p.ContentDisposition)), "attachment")
}

// contentDisposition quotes name, adding an RFC 5987 form for non-ASCII names
func contentDisposition(name string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(name)
	v := fmt.Sprintf(`attachment; filename="%s"`, quoted)
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return v + "; filename*=UTF-8''" + url.PathEscape(name)
		}
	}
	return v
}
