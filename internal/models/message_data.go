package models

// MessageData is one parsed source message, before persistence
type MessageData struct {
	MessageFields
	Vendor string
	Folder string
	Parts  []MessagePartData
	From   []MessageAddressData
	To     []MessageAddressData
	Cc     []MessageAddressData
	Bcc    []MessageAddressData
}

// AddressesByType returns the four role lists in a fixed order
func (m *MessageData) AddressesByType() []AddressList {
	return []AddressList{
		{Type: AddressFrom, Addresses: m.From},
		{Type: AddressTo, Addresses: m.To},
		{Type: AddressCc, Addresses: m.Cc},
		{Type: AddressBcc, Addresses: m.Bcc},
	}
}

// MessagePartData is one MIME node. ParentPartOrder, when set, is the
// PartOrder of the nearest multipart container and is always smaller than
// PartOrder: containers are emitted before their children.
type MessagePartData struct {
	PartFields
	ParentPartOrder *int
}

// MessageAddressData is a normalized email plus optional display name
type MessageAddressData struct {
	Email       string
	DisplayName *string
}

// AddressList groups the addresses of a single role
type AddressList struct {
	Type      AddressType
	Addresses []MessageAddressData
}
