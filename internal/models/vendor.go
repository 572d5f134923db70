package models

import (
	"strings"
	"time"
)

// Known vendor names. Vendor names are stored in canonical (lower-case) form.
const (
	VendorThunderbird = "thunderbird"
	VendorSMTP        = "smtp"
)

// Vendor represents the mail client or service a message was ingested from
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:64" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Vendor
func (Vendor) TableName() string {
	return "vendor"
}

// CanonicalVendorName normalizes a vendor name for storage and lookup
func CanonicalVendorName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
