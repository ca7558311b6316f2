/*
Package chat contains the core logic for realtime message delivery.

This file implements the business handlers behind the dispatcher: text chat
messages, presigned upload requests, and completed-upload announcements.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/logx"
)

// handleChatMessage persists a text message, updates the chat preview record,
// and delivers the frame to both participants. The sender receives its own
// message back for UI echo.
func handleChatMessage(ctx context.Context, deps *Deps, sender user.User, payload json.RawMessage) (bool, string) {
	var in ChatInbound
	if err := json.Unmarshal(payload, &in); err != nil {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "Invalid chat message payload."))
		return false, "invalid chat payload"
	}

	if in.RecipientID == "" || in.ChatID == "" || in.Content == "" {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "Missing recipient_id, chat_id, or content."))
		return false, "missing chat fields"
	}

	if len(in.Content) > MaxContentBytes {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "Message content is too long."))
		return false, "content too long"
	}

	now := time.Now().UTC()

	// Persistence failures are soft: they are logged and delivery continues.
	// A message delivered but not persisted is an accepted partial failure.
	if err := deps.Store.SaveMessage(ctx, StoredMessage{
		ChatID:    in.ChatID,
		SenderID:  sender.ID,
		Username:  sender.Username,
		Content:   in.Content,
		Type:      "text",
		Timestamp: now,
	}); err != nil {
		logx.Error(err, "Failed to persist chat message", "chat_id", in.ChatID)
	}

	if err := deps.Store.UpdateChatPreview(ctx, in.ChatID, now, PreviewText(in.Content, "text"), "text"); err != nil {
		logx.Error(err, "Failed to update chat preview", "chat_id", in.ChatID)
	}

	frame, err := json.Marshal(ChatFrame{
		Type:     TypeChat,
		SenderID: sender.ID,
		ChatID:   in.ChatID,
		Username: sender.Username,
		Content:  in.Content,
	})
	if err != nil {
		return false, "marshal chat frame"
	}

	deps.Delivery.Send(sender.ID, frame)
	deps.Delivery.Send(in.RecipientID, frame)

	if sender.IsPremium {
		return true, ""
	}
	return true, InfoIncremented
}

// handleFileRequest validates a pending upload against the requester's plan
// and returns a presigned upload descriptor to the requester only.
func handleFileRequest(ctx context.Context, deps *Deps, sender user.User, payload json.RawMessage) (bool, string) {
	var in FileRequestInbound
	if err := json.Unmarshal(payload, &in); err != nil {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "Invalid file request payload."))
		return false, "invalid file request payload"
	}

	if in.Filename == "" || in.Filesize <= 0 {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "File request missing filename or filesize."))
		return false, "missing file request fields"
	}

	if !sender.IsPremium && in.Filesize > deps.MaxFreeFileBytes {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeFileTooLarge,
			"File size exceeds free limit of %dMB.", deps.MaxFreeFileBytes/(1024*1024)))
		return false, "file too large for free plan"
	}

	desc, err := deps.Uploads.CreateUploadDescriptor(ctx, sender.ID, in.Filename)
	if err != nil {
		logx.Error(err, "Failed to create upload descriptor", "user_id", sender.ID)
		deps.Delivery.Send(sender.ID, NewErrorFrame("", "Could not prepare file upload."))
		return false, "upload descriptor failed"
	}

	frame, err := json.Marshal(FileUploadURLFrame{
		Type:     TypeFileUploadURL,
		Filename: in.Filename,
		URL:      desc.URL,
		S3Key:    desc.ObjectKey,
	})
	if err != nil {
		return false, "marshal upload url frame"
	}

	deps.Delivery.Send(sender.ID, frame)
	return true, ""
}

// handleFileUploaded records a completed upload as a file-type message and
// announces it to both participants. The chat ID is recomputed from the two
// participant IDs rather than trusted from the client.
func handleFileUploaded(ctx context.Context, deps *Deps, sender user.User, payload json.RawMessage) (bool, string) {
	var in FileUploadedInbound
	if err := json.Unmarshal(payload, &in); err != nil {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "Invalid file confirmation payload."))
		return false, "invalid file confirmation payload"
	}

	if in.S3Key == "" || in.Filename == "" || in.RecipientID == "" {
		deps.Delivery.Send(sender.ID, NewErrorFrame(CodeBadRequest, "File confirmation missing s3_key, filename, or recipient_id."))
		return false, "missing file confirmation fields"
	}

	chatID := ChatID(sender.ID, in.RecipientID)
	now := time.Now().UTC()

	if err := deps.Store.SaveMessage(ctx, StoredMessage{
		ChatID:    chatID,
		SenderID:  sender.ID,
		Username:  sender.Username,
		Content:   in.S3Key,
		Type:      "file",
		Timestamp: now,
	}); err != nil {
		logx.Error(err, "Failed to persist file message", "chat_id", chatID)
	}

	if err := deps.Store.UpdateChatPreview(ctx, chatID, now, PreviewText("", "file"), "file"); err != nil {
		logx.Error(err, "Failed to update chat preview", "chat_id", chatID)
	}

	frame, err := json.Marshal(FileFrame{
		Type:     TypeFile,
		SenderID: sender.ID,
		ChatID:   chatID,
		Username: sender.Username,
		Filename: in.Filename,
		S3Key:    in.S3Key,
	})
	if err != nil {
		return false, "marshal file frame"
	}

	deps.Delivery.Send(sender.ID, frame)
	deps.Delivery.Send(in.RecipientID, frame)

	if sender.IsPremium {
		return true, ""
	}
	return true, InfoIncremented
}
