package models

import "strings"

// AddressType is the role an address plays in a message
type AddressType string

const (
	AddressFrom AddressType = "from"
	AddressTo   AddressType = "to"
	AddressCc   AddressType = "cc"
	AddressBcc  AddressType = "bcc"
)

// Address is a normalized email address shared across messages
type Address struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	EmailAddress string  `gorm:"uniqueIndex;not null;size:320" json:"email_address"`
	DisplayName  *string `gorm:"size:255" json:"display_name,omitempty"`
}

// TableName returns the table name for Address
func (Address) TableName() string {
	return "address"
}

// MessageAddressMap links a message to an address in a given role
type MessageAddressMap struct {
	MessageID   uint        `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	AddressID   uint        `gorm:"primaryKey;autoIncrement:false" json:"address_id"`
	AddressType AddressType `gorm:"primaryKey;size:8" json:"address_type"`

	// Relationships
	Message *Message `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	Address *Address `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for MessageAddressMap
func (MessageAddressMap) TableName() string {
	return "message_address_map"
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether a normalized address is usable
func ValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
