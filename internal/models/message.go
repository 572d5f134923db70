package models

import (
	"time"
)

// MessageFields holds the header-level fields shared by the transient
// MessageData and the persisted Message.
type MessageFields struct {
	RFC822MessageID string     `gorm:"column:rfc822_message_id;uniqueIndex;not null;size:998" json:"rfc822_message_id"`
	Subject         string     `gorm:"not null" json:"subject"`
	DateSent        *time.Time `json:"date_sent,omitempty"`
	DateReceived    time.Time  `gorm:"index;not null" json:"date_received"`
	InReplyTo       *string    `json:"in_reply_to,omitempty"`
	ReferencesList  *string    `json:"references_list,omitempty"`
	IsRead          bool       `gorm:"not null" json:"is_read"`
	IsReplied       bool       `gorm:"not null" json:"is_replied"`
	IsFlagged       bool       `gorm:"not null" json:"is_flagged"`
	IsForwarded     bool       `gorm:"not null" json:"is_forwarded"`
}

// Message represents an ingested email message. Created once per RFC 822
// Message-ID; afterwards only status flags and folder change.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`
	MessageFields
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`
	FolderID  *uint     `gorm:"index" json:"folder_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT" json:"-"`
	Folder *Folder `gorm:"foreignKey:FolderID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "message"
}

// MessageStatusUpdate carries the mutable fields of a Message. Nil fields are left unchanged.
type MessageStatusUpdate struct {
	IsRead      *bool `json:"is_read,omitempty"`
	IsReplied   *bool `json:"is_replied,omitempty"`
	IsFlagged   *bool `json:"is_flagged,omitempty"`
	IsForwarded *bool `json:"is_forwarded,omitempty"`
	FolderID    *uint `json:"folder_id,omitempty"`
}

// Empty reports whether the update changes nothing
func (u MessageStatusUpdate) Empty() bool {
	return u.IsRead == nil && u.IsReplied == nil && u.IsFlagged == nil &&
		u.IsForwarded == nil && u.FolderID == nil
}

// MessageHeader is a lightweight version for list views
type MessageHeader struct {
	ID           uint      `json:"id"`
	Subject      string    `json:"subject"`
	DateReceived time.Time `json:"date_received"`
	IsRead       bool      `json:"is_read"`
	VendorID     uint      `json:"vendor_id"`
	FolderID     *uint     `json:"folder_id,omitempty"`
}
