package repository

import "gorm.io/gorm"

// Repositories bundles every repository over one connection or transaction
type Repositories struct {
	Vendors     VendorRepository
	Folders     FolderRepository
	Messages    MessageRepository
	Parts       MessagePartRepository
	Addresses   AddressRepository
	AddressMaps MessageAddressMapRepository
	Rules       RuleRepository
}

// NewRepositories creates all repositories over db
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Vendors:     NewVendorRepository(db),
		Folders:     NewFolderRepository(db),
		Messages:    NewMessageRepository(db),
		Parts:       NewMessagePartRepository(db),
		Addresses:   NewAddressRepository(db),
		AddressMaps: NewMessageAddressMapRepository(db),
		Rules:       NewRuleRepository(db),
	}
}

// WithTx returns the same repositories bound to tx
func (r Repositories) WithTx(tx *gorm.DB) Repositories {
	return Repositories{
		Vendors:     r.Vendors.WithTx(tx),
		Folders:     r.Folders.WithTx(tx),
		Messages:    r.Messages.WithTx(tx),
		Parts:       r.Parts.WithTx(tx),
		Addresses:   r.Addresses.WithTx(tx),
		AddressMaps: r.AddressMaps.WithTx(tx),
		Rules:       r.Rules.WithTx(tx),
	}
}
