package fixtures

import (
	"fmt"
	"time"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

// VendorBuilder creates test Vendor instances with fluent API
type VendorBuilder struct {
	vendor models.Vendor
}

// NewVendorBuilder creates a new VendorBuilder with sensible defaults
func NewVendorBuilder() *VendorBuilder {
	now := time.Now()
	return &VendorBuilder{
		vendor: models.Vendor{
			ID:        1,
			Name:      models.VendorThunderbird,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the vendor ID
func (b *VendorBuilder) WithID(id uint) *VendorBuilder {
	b.vendor.ID = id
	return b
}

// WithName sets the vendor name
func (b *VendorBuilder) WithName(name string) *VendorBuilder {
	b.vendor.Name = name
	return b
}

// Build returns the constructed Vendor
func (b *VendorBuilder) Build() *models.Vendor {
	return &b.vendor
}

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	now := time.Now()
	return &MessageBuilder{
		message: models.Message{
			ID: 1,
			MessageFields: models.MessageFields{
				RFC822MessageID: "<msg-1@example.com>",
				Subject:         "Test Subject",
				DateSent:        &now,
				DateReceived:    now,
			},
			VendorID: 1,
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithRFC822ID sets the RFC 822 Message-ID
func (b *MessageBuilder) WithRFC822ID(id string) *MessageBuilder {
	b.message.RFC822MessageID = id
	return b
}

// WithSubject sets the subject
func (b *MessageBuilder) WithSubject(subject string) *MessageBuilder {
	b.message.Subject = subject
	return b
}

// WithVendorID sets the vendor ID
func (b *MessageBuilder) WithVendorID(id uint) *MessageBuilder {
	b.message.VendorID = id
	return b
}

// WithFolderID sets the folder ID
func (b *MessageBuilder) WithFolderID(id uint) *MessageBuilder {
	b.message.FolderID = &id
	return b
}

// WithDateReceived sets the received timestamp
func (b *MessageBuilder) WithDateReceived(t time.Time) *MessageBuilder {
	b.message.DateReceived = t
	return b
}

// WithRead sets the read flag
func (b *MessageBuilder) WithRead(isRead bool) *MessageBuilder {
	b.message.IsRead = isRead
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// MessageDataBuilder creates parsed MessageData instances with fluent API
type MessageDataBuilder struct {
	data models.MessageData
}

// NewMessageDataBuilder creates a MessageData with a single text/plain part
func NewMessageDataBuilder() *MessageDataBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &MessageDataBuilder{
		data: models.MessageData{
			MessageFields: models.MessageFields{
				RFC822MessageID: "<msg-1@example.com>",
				Subject:         "Test Subject",
				DateSent:        &now,
				DateReceived:    now,
			},
			Vendor: models.VendorThunderbird,
			Folder: "Inbox",
			Parts:  []models.MessagePartData{TextPart(0, nil, "plain", "hello")},
			From:   []models.MessageAddressData{Addr("sender@example.com", "Sender")},
			To:     []models.MessageAddressData{Addr("rcpt@example.com", "")},
		},
	}
}

// WithRFC822ID sets the RFC 822 Message-ID
func (b *MessageDataBuilder) WithRFC822ID(id string) *MessageDataBuilder {
	b.data.RFC822MessageID = id
	return b
}

// WithSubject sets the subject
func (b *MessageDataBuilder) WithSubject(subject string) *MessageDataBuilder {
	b.data.Subject = subject
	return b
}

// WithVendor sets the vendor tag
func (b *MessageDataBuilder) WithVendor(vendor string) *MessageDataBuilder {
	b.data.Vendor = vendor
	return b
}

// WithFolder sets the target folder name
func (b *MessageDataBuilder) WithFolder(folder string) *MessageDataBuilder {
	b.data.Folder = folder
	return b
}

// WithDateReceived sets the received timestamp
func (b *MessageDataBuilder) WithDateReceived(t time.Time) *MessageDataBuilder {
	b.data.DateReceived = t
	return b
}

// WithParts replaces the part list
func (b *MessageDataBuilder) WithParts(parts ...models.MessagePartData) *MessageDataBuilder {
	b.data.Parts = parts
	return b
}

// WithFrom replaces the From list
func (b *MessageDataBuilder) WithFrom(addrs ...models.MessageAddressData) *MessageDataBuilder {
	b.data.From = addrs
	return b
}

// WithTo replaces the To list
func (b *MessageDataBuilder) WithTo(addrs ...models.MessageAddressData) *MessageDataBuilder {
	b.data.To = addrs
	return b
}

// WithCc replaces the Cc list
func (b *MessageDataBuilder) WithCc(addrs ...models.MessageAddressData) *MessageDataBuilder {
	b.data.Cc = addrs
	return b
}

// WithBcc replaces the Bcc list
func (b *MessageDataBuilder) WithBcc(addrs ...models.MessageAddressData) *MessageDataBuilder {
	b.data.Bcc = addrs
	return b
}

// Build returns the constructed MessageData
func (b *MessageDataBuilder) Build() *models.MessageData {
	return &b.data
}

// BuildValue returns the constructed MessageData as a value (not pointer)
func (b *MessageDataBuilder) BuildValue() models.MessageData {
	return b.data
}

// Addr builds an address; an empty name means no display name
func Addr(email, name string) models.MessageAddressData {
	a := models.MessageAddressData{Email: email}
	if name != "" {
		a.DisplayName = &name
	}
	return a
}

// ContainerPart builds a multipart container node
func ContainerPart(order int, parent *int, subtype string) models.MessagePartData {
	return models.MessagePartData{
		PartFields: models.PartFields{
			MimeType:    "multipart",
			MimeSubtype: subtype,
			PartOrder:   order,
		},
		ParentPartOrder: parent,
	}
}

// TextPart builds a text/<subtype> leaf
func TextPart(order int, parent *int, subtype, content string) models.MessagePartData {
	return LeafPart(order, parent, "text", subtype, []byte(content))
}

// LeafPart builds a leaf with raw content
func LeafPart(order int, parent *int, mimeType, subtype string, content []byte) models.MessagePartData {
	p := models.MessagePartData{
		PartFields: models.PartFields{
			MimeType:    mimeType,
			MimeSubtype: subtype,
			Content:     content,
			PartOrder:   order,
		},
		ParentPartOrder: parent,
	}
	if content != nil {
		size := int64(len(content))
		p.SizeBytes = &size
	}
	return p
}

// AttachmentPart builds an attachment leaf with a filename
func AttachmentPart(order int, parent *int, filename, mimeType, subtype string, content []byte) models.MessagePartData {
	p := LeafPart(order, parent, mimeType, subtype, content)
	disposition := "attachment"
	p.Filename = &filename
	p.ContentDisposition = &disposition
	p.IsAttachment = true
	return p
}

// InlinePart builds an inline leaf referenced by content-id
func InlinePart(order int, parent *int, contentID, mimeType, subtype string, content []byte) models.MessagePartData {
	p := LeafPart(order, parent, mimeType, subtype, content)
	disposition := "inline"
	p.ContentID = &contentID
	p.ContentDisposition = &disposition
	return p
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

// CreateMessageData creates count messages with distinct ids, one hour apart
func CreateMessageData(count int) []models.MessageData {
	base := time.Now().UTC().Truncate(time.Second)
	out := make([]models.MessageData, count)
	for i := 0; i < count; i++ {
		out[i] = NewMessageDataBuilder().
			WithRFC822ID(fmt.Sprintf("<msg-%d@example.com>", i+1)).
			WithSubject(generateSubject(i)).
			WithDateReceived(base.Add(-time.Duration(i) * time.Hour)).
			BuildValue()
	}
	return out
}

func generateSubject(index int) string {
	subjects := []string{
		"Welcome to our service",
		"Your order confirmation",
		"Important update",
		"Newsletter",
		"Account notification",
	}
	return subjects[index%len(subjects)]
}
