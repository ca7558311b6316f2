package chat

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/logx"
)

// Session is the per-connection cache of the sender's plan status and billable
// counter. It is seeded from the store exactly once, at connect time, and then
// mutated locally after each billable send: the staleness window of the cached
// values is the lifetime of one socket connection.
type Session struct {
	UserID       string
	IsPremium    bool
	MessageCount int
}

// NewSession seeds a session from the user's stored state.
func NewSession(u user.User) *Session {
	return &Session{
		UserID:       u.ID,
		IsPremium:    u.IsPremium,
		MessageCount: u.MessageCount,
	}
}

// DeniedSession returns a fail-closed session used when the store cannot be
// read at connect time: the inflated counter denies all sends for free users
// until the user reconnects against a healthy store.
func DeniedSession(userID string) *Session {
	return &Session{
		UserID:       userID,
		IsPremium:    false,
		MessageCount: math.MaxInt32,
	}
}

// Gate decides whether a user may send, based on the session cache.
type Gate struct {
	maxFreeMessages int
	store           Store

	logger zerolog.Logger
}

// NewGate constructs a quota gate admitting free users up to maxFreeMessages
// billable sends.
func NewGate(maxFreeMessages int, store Store) *Gate {
	return &Gate{
		maxFreeMessages: maxFreeMessages,
		store:           store,
		logger:          logx.Logger().With().Str("component", "quota").Logger(),
	}
}

// Admit reports whether the session's user may send another message.
// Premium users always pass; free users pass while below the limit.
func (g *Gate) Admit(s *Session) bool {
	if s.IsPremium {
		return true
	}
	return s.MessageCount < g.maxFreeMessages
}

// RecordSend accounts for one billable send: the in-memory counter advances
// immediately and the durable counter is incremented fire-and-forget. A store
// failure is logged, never surfaced to the user, and never rolled back.
func (g *Gate) RecordSend(ctx context.Context, s *Session) {
	s.MessageCount++

	if err := g.store.IncrementMessageCount(ctx, s.UserID); err != nil {
		g.logger.Error().Err(err).
			Str("user_id", s.UserID).
			Msg("Failed to persist message count increment.")
	}
}
