package chat

import (
	"context"
	"time"

	"dmchat/internal/app/storage"
	"dmchat/internal/app/user"
)

// StoredMessage is the append-only record persisted for every delivered message.
type StoredMessage struct {
	ChatID   string
	SenderID string
	Username string

	// Content holds the text body for "text" messages and the S3 object key
	// for "file" messages.
	Content string

	// Type is "text" or "file".
	Type string

	Timestamp time.Time
}

// Store is the persistence surface the realtime core consumes. The concrete
// implementation lives in the db package; handlers and the quota gate only
// depend on this interface.
type Store interface {
	// GetUser returns the user's current plan status and message counter.
	GetUser(ctx context.Context, userID string) (user.User, error)

	// IncrementMessageCount durably advances the user's billable counter by one.
	IncrementMessageCount(ctx context.Context, userID string) error

	// SaveMessage appends a message to the chat history.
	SaveMessage(ctx context.Context, msg StoredMessage) error

	// UpdateChatPreview upserts the last-message preview on the chat record.
	UpdateChatPreview(ctx context.Context, chatID string, ts time.Time, preview, msgType string) error
}

// Uploads is the object-storage surface the realtime core consumes.
// *storage.Service implementations satisfy it.
type Uploads interface {
	// CreateUploadDescriptor issues a presigned PUT URL for the given file,
	// valid for one hour.
	CreateUploadDescriptor(ctx context.Context, userID, filename string) (storage.UploadDescriptor, error)
}
