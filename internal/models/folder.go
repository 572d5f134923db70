package models

import (
	"strings"
	"time"
)

// Folder represents a mail folder. SystemType marks reserved folders (inbox, trash, ...).
type Folder struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	SystemType *string   `gorm:"uniqueIndex;size:32" json:"system_type,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Folder
func (Folder) TableName() string {
	return "folder"
}

// SystemFolder pairs a reserved system type with its display name
type SystemFolder struct {
	SystemType string
	Name       string
}

// DefaultSystemFolders are seeded on migration. Names follow the mailbox
// file names a Thunderbird profile uses for the same folders.
var DefaultSystemFolders = []SystemFolder{
	{SystemType: "inbox", Name: "Inbox"},
	{SystemType: "sent", Name: "Sent"},
	{SystemType: "drafts", Name: "Drafts"},
	{SystemType: "templates", Name: "Templates"},
	{SystemType: "archives", Name: "Archives"},
	{SystemType: "junk", Name: "Junk"},
	{SystemType: "trash", Name: "Trash"},
}

// CanonicalFolderName normalizes a folder name for system type lookup
func CanonicalFolderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
