/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file contains the websocket endpoint: rate limiting, identity-token
validation, connection upgrade, quota session seeding, and client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"dmchat/internal/app/chat"
	"dmchat/internal/app/user"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/limiter"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process websocket connection requests.
// The identity token is passed as the "token" query parameter.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing token query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		// The token says who the user is; the store says what their plan and
		// counter currently are. The session cache is seeded here, once per
		// connection. An unreadable store seeds a fail-closed session that
		// denies free-tier sends instead of granting unmetered ones.
		currentUser := user.User{
			ID:       payload.ID,
			Username: payload.Username,
		}

		var session *chat.Session

		storedUser, err := deps.Store.GetUser(r.Context(), payload.ID)
		if err != nil {
			logx.Error(err, "Failed to load user status at connect, denying sends", "user_id", payload.ID)
			session = chat.DeniedSession(payload.ID)
		} else {
			currentUser.IsPremium = storedUser.IsPremium
			currentUser.MessageCount = storedUser.MessageCount
			session = chat.NewSession(storedUser)
		}

		logx.Info("Attempting to upgrade connection", "user_id", payload.ID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(conn, currentUser, session, deps.Registry, deps.Dispatcher, deps.Gate)

		go client.WritePump()

		deps.Registry.Register(payload.ID, client)

		logx.Info("WebSocket connection established and client registered", "user_id", payload.ID)

		client.ReadPump()
	}
}
