/*
Package chat contains the core logic for realtime message delivery.

This file defines the Registry, the process-local mapping from user ID to the
single open websocket connection this process holds for that user.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"dmchat/internal/pkg/logx"
)

// localConn is the connection surface the Registry needs: a non-blocking
// delivery attempt and a forced close for replaced sessions.
// *Client implements it.
type localConn interface {
	deliver(payload []byte) bool
	kick(reason string)
}

// Registry holds the websocket connections owned by this process, at most one
// per user ID. It is mutated concurrently by connection goroutines (register on
// connect, unregister on disconnect, lookup on every send), so all access goes
// through the mutex. The Registry is never iterated from outside the package.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]localConn

	logger zerolog.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]localConn),
		logger: logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// Register stores conn under userID, replacing any prior entry for that user in
// this process. A replaced connection is kicked with a session-replaced close
// frame so the old socket does not leak (single session per user per process).
func (r *Registry) Register(userID string, conn localConn) {
	r.mu.Lock()
	existing, ok := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if ok && existing != conn {
		r.logger.Warn().
			Str("user_id", userID).
			Msg("User already connected. Closing old connection for replacement.")

		existing.kick("Session replaced by new connection. Check other tabs.")
	}

	r.logger.Info().Str("user_id", userID).Msg("Connection registered.")
}

// Unregister removes the entry for userID if it still refers to conn.
// The guard keeps a kicked, stale connection's deferred cleanup from tearing
// down the replacement that has already taken its slot.
func (r *Registry) Unregister(userID string, conn localConn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[userID]
	if !ok {
		return
	}

	if current != conn {
		r.logger.Info().Str("user_id", userID).Msg("Ignoring unregister for stale connection.")
		return
	}

	delete(r.conns, userID)
	r.logger.Info().Str("user_id", userID).Msg("Connection unregistered.")
}

// TrySendLocal writes payload to the user's socket if the user is registered in
// this process. It returns false when the user is not present here. A failed
// write (closed or saturated connection) removes the entry as a side effect and
// also returns false.
func (r *Registry) TrySendLocal(userID string, payload []byte) bool {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok {
		return false
	}

	if !conn.deliver(payload) {
		r.logger.Warn().
			Str("user_id", userID).
			Msg("Write to local connection failed, dropping registry entry.")

		r.Unregister(userID, conn)
		return false
	}

	return true
}
