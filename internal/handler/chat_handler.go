/*
Package handler provides HTTP handler functions for the chat list, chat
creation, and message history endpoints.
*/
package handler

import (
	"net/http"
	"strconv"
	"time"

	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

const (
	// DefaultHistoryLimit is the number of messages returned when the client does not ask for more.
	DefaultHistoryLimit = 20

	// MaxHistoryLimit caps a single history page.
	MaxHistoryLimit = 100
)

// HandleListChats returns the authenticated user's active chats, newest first.
func HandleListChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		chats, err := deps.Store.ListActiveChats(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list active chats", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chats": chats,
		})
	}
}

type CreateChatInput struct {
	PeerID string `json:"peer_id"`
}

// HandleCreateChat creates (or finds) the chat between the authenticated user
// and the given peer, returning its deterministic chat ID.
func HandleCreateChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.PeerID == "" || input.PeerID == identity.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		exists, err := deps.Store.UserExists(r.Context(), input.PeerID)
		if err != nil {
			logx.Error(err, "failed to check peer existence", "peer_id", input.PeerID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !exists {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		chatID, err := deps.Store.CreateChat(r.Context(), identity.ID, input.PeerID)
		if err != nil {
			logx.Error(err, "failed to create chat", "peer_id", input.PeerID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chat_id": chatID,
		})
	}
}

// HandleChatHistory returns up to "limit" messages of one chat, oldest first.
// Only a participant of the chat may read its history.
func HandleChatHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		chatID := r.URL.Query().Get("chat_id")
		if chatID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		limit := DefaultHistoryLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			limit = min(parsed, MaxHistoryLimit)
		}

		isParticipant, err := deps.Store.IsChatParticipant(r.Context(), chatID, identity.ID)
		if err != nil {
			logx.Error(err, "failed to check chat membership", "chat_id", chatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !isParticipant {
			resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
			return
		}

		history, err := deps.Store.GetChatHistory(r.Context(), chatID, limit)
		if err != nil {
			logx.Error(err, "failed to load chat history", "chat_id", chatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		messages := make([]map[string]any, 0, len(history))
		for _, m := range history {
			messages = append(messages, map[string]any{
				"sender_id": m.SenderID,
				"username":  m.Username,
				"content":   m.Content,
				"type":      m.Type,
				"timestamp": m.Timestamp.Format(time.RFC3339),
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chat_id":  chatID,
			"messages": messages,
		})
	}
}
