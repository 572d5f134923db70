package models

import (
	"strings"
	"time"
)

// Rule priorities run from MinPriority (highest) to MaxPriority
const (
	MinPriority = 1
	MaxPriority = 3
)

// PriorityPerson marks mail from an address as important. An address has at
// most one rule.
type PriorityPerson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AddressID uint      `gorm:"uniqueIndex;not null" json:"address_id"`
	Priority  int       `gorm:"not null" json:"priority"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Address *Address `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for PriorityPerson
func (PriorityPerson) TableName() string {
	return "priority_person"
}

// PriorityWord marks mail containing a dictionary word as important
type PriorityWord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Word      string    `gorm:"uniqueIndex;not null;size:255" json:"word"`
	Priority  int       `gorm:"not null" json:"priority"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for PriorityWord
func (PriorityWord) TableName() string {
	return "priority_word"
}

// AddressRule is the API view of a PriorityPerson
type AddressRule struct {
	ID       uint    `json:"id"`
	Address  string  `json:"address"`
	Name     *string `json:"name,omitempty"`
	Priority int     `json:"priority"`
}

// AddressRuleCreate is the body of a new address rule
type AddressRuleCreate struct {
	Address  string `json:"address"`
	Priority int    `json:"priority"`
}

// WordRuleCreate is the body of a new dictionary rule
type WordRuleCreate struct {
	Word     string `json:"word"`
	Priority int    `json:"priority"`
}

// PriorityUpdate changes the priority of an existing rule
type PriorityUpdate struct {
	Priority int `json:"priority"`
}

// ValidPriority reports whether p is within MinPriority..MaxPriority
func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// NormalizeWord trims and lower-cases a dictionary word so that "Invoice"
// and "invoice" are the same rule
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
