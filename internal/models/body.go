package models

// MessageBody is the reconstructed, display-ready body of a message
type MessageBody struct {
	MessageID   uint             `json:"message_id"`
	Text        *string          `json:"text,omitempty"`
	HTML        *string          `json:"html,omitempty"`
	Encoding    *string          `json:"encoding,omitempty"`
	Attachments []AttachmentInfo `json:"attachments"`
}

// AttachmentInfo describes a downloadable attachment part
type AttachmentInfo struct {
	PartID      uint    `json:"part_id"`
	Filename    *string `json:"filename,omitempty"`
	MimeType    string  `json:"mime_type"`
	MimeSubtype string  `json:"mime_subtype"`
	SizeBytes   *int64  `json:"size_bytes,omitempty"`
	ContentID   *string `json:"content_id,omitempty"`
	IsInline    bool    `json:"is_inline"`
	ContentURL  string  `json:"content_url"`
}

// PartContent is the raw content of a single part, ready to serve
type PartContent struct {
	Content   []byte
	MediaType string
	Headers   map[string]string
}
