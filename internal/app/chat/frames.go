/*
Package chat contains the core logic for realtime message delivery: the connection
registry, the cross-process broadcast bridge, the delivery facade, the quota gate,
and the message-type dispatcher.

This file defines the wire-level JSON types exchanged with clients and with the
broadcast broker, plus the deterministic chat identifier derivation.
*/
package chat

import (
	"encoding/json"
	"fmt"
)

// Inbound message type tags. The set is closed; the dispatcher rejects anything else.
const (
	TypeChat         = "chat"
	TypeFileRequest  = "file_request"
	TypeFileUploaded = "file_uploaded"
)

// Outbound frame type tags.
const (
	TypeFile          = "file"
	TypeFileUploadURL = "file_upload_url"
	TypeError         = "error"
)

// Stable error frame codes sent to clients. These are part of the wire contract
// and independent from the errs package HTTP codes.
const (
	CodeQuotaExceeded = "001"
	CodeFileTooLarge  = "002"
	CodeBadRequest    = "003"
	CodeUnknownType   = "004"
)

// ChatIDSeparator joins the two sorted participant IDs into a chat identifier.
const ChatIDSeparator = "::CHAT::"

// MessagePreviewLen is the number of content characters kept in a chat's preview record.
const MessagePreviewLen = 50

// MaxContentBytes is the maximum allowed size for text message content.
const MaxContentBytes = 5000

// ChatID derives the deterministic chat identifier for two participants.
// The participant user IDs are sorted lexicographically before joining, so
// ChatID(a, b) == ChatID(b, a) and either side can look up the same record.
func ChatID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ChatIDSeparator + userB
}

// PreviewText builds the short preview stored on the chat record.
// File messages collapse to the literal "File"; text content is truncated.
func PreviewText(content, msgType string) string {
	if msgType == "file" {
		return "File"
	}

	runes := []rune(content)
	if len(runes) > MessagePreviewLen {
		return string(runes[:MessagePreviewLen])
	}
	return content
}

// ChatInbound is the client payload for a text chat message.
type ChatInbound struct {
	RecipientID string `json:"recipient_id"`
	ChatID      string `json:"chat_id"`
	Content     string `json:"content"`
}

// FileRequestInbound is the client payload asking for a presigned upload URL.
type FileRequestInbound struct {
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
}

// FileUploadedInbound is the client payload announcing a completed upload.
type FileUploadedInbound struct {
	S3Key       string `json:"s3_key"`
	Filename    string `json:"filename"`
	RecipientID string `json:"recipient_id"`
}

// ChatFrame is the outbound frame for a delivered text message.
type ChatFrame struct {
	Type     string `json:"type"`
	SenderID string `json:"sender_id"`
	ChatID   string `json:"chat_id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

// FileFrame is the outbound frame announcing an uploaded file to a chat.
type FileFrame struct {
	Type     string `json:"type"`
	SenderID string `json:"sender_id"`
	ChatID   string `json:"chat_id"`
	Username string `json:"username"`
	Filename string `json:"filename"`
	S3Key    string `json:"s3_key"`
}

// FileUploadURLFrame is the outbound frame carrying a presigned upload descriptor.
// It is sent only to the requester.
type FileUploadURLFrame struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	S3Key    string `json:"s3_key"`
}

// ErrorFrame is the outbound frame reporting a policy rejection or malformed input.
// It is sent only to the offending sender and never broadcast.
type ErrorFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Code    string `json:"code,omitempty"`
}

// NewErrorFrame marshals an error frame with the given stable code.
func NewErrorFrame(code, format string, args ...any) []byte {
	frame := ErrorFrame{
		Type:    TypeError,
		Content: fmt.Sprintf(format, args...),
		Code:    code,
	}

	// The frame cannot fail to marshal, it contains only strings.
	payload, _ := json.Marshal(frame)
	return payload
}

// Envelope is the transient wrapper published on the broadcast topic.
// Message holds one of the outbound frame JSON strings verbatim; the envelope
// exists only for the single publish-deliver cycle and is never persisted.
type Envelope struct {
	TargetUserID string `json:"target_user_id"`
	Message      string `json:"message"`
}
