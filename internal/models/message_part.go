package models

// PartFields holds the MIME metadata shared by MessagePartData and MessagePart
type PartFields struct {
	MimeType           string  `gorm:"size:127;not null" json:"mime_type"`
	MimeSubtype        string  `gorm:"size:127;not null" json:"mime_subtype"`
	Filename           *string `gorm:"size:255" json:"filename,omitempty"`
	ContentID          *string `gorm:"size:255;index" json:"content_id,omitempty"`
	ContentDisposition *string `gorm:"size:64" json:"content_disposition,omitempty"`
	Content            []byte  `json:"-"`
	PartOrder          int     `gorm:"not null" json:"part_order"`
	IsAttachment       bool    `gorm:"not null" json:"is_attachment"`
	SizeBytes          *int64  `json:"size_bytes,omitempty"`
}

// MediaType returns "type/subtype", defaulting missing halves to application/octet-stream
func (p PartFields) MediaType() string {
	mt, st := p.MimeType, p.MimeSubtype
	if mt == "" {
		mt = "application"
	}
	if st == "" {
		st = "octet-stream"
	}
	return mt + "/" + st
}

// Is reports whether the part has the given media type and subtype
func (p PartFields) Is(mimeType, mimeSubtype string) bool {
	return p.MimeType == mimeType && p.MimeSubtype == mimeSubtype
}

// MessagePart is one persisted MIME node. ParentPartID rebuilds the tree.
// Parts are write-once.
type MessagePart struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	MessageID    uint  `gorm:"not null;index" json:"message_id"`
	ParentPartID *uint `gorm:"index" json:"parent_part_id,omitempty"`
	PartFields

	// Relationships
	Message *Message     `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	Parent  *MessagePart `gorm:"foreignKey:ParentPartID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for MessagePart
func (MessagePart) TableName() string {
	return "message_part"
}
