package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"dmchat/internal/app/user"
)

// fakeStore implements Store with canned behavior for the quota and handler tests.
type fakeStore struct {
	users map[string]user.User

	increments []string
	incErrs    map[string]error

	saved    []StoredMessage
	previews []string
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]user.User),
	}
}

func (s *fakeStore) GetUser(ctx context.Context, userID string) (user.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return user.User{}, errors.New("user not found")
	}
	return u, nil
}

func (s *fakeStore) IncrementMessageCount(ctx context.Context, userID string) error {
	s.increments = append(s.increments, userID)
	if s.incErrs != nil {
		return s.incErrs[userID]
	}
	return nil
}

func (s *fakeStore) SaveMessage(ctx context.Context, msg StoredMessage) error {
	s.saved = append(s.saved, msg)
	return s.saveErr
}

func (s *fakeStore) UpdateChatPreview(ctx context.Context, chatID string, ts time.Time, preview, msgType string) error {
	s.previews = append(s.previews, preview)
	return nil
}

func TestGateAdmit(t *testing.T) {
	gate := NewGate(50, newFakeStore())

	tests := []struct {
		name    string
		session *Session
		want    bool
	}{
		{"free user below limit", &Session{UserID: "a", MessageCount: 0}, true},
		{"free user one below limit", &Session{UserID: "a", MessageCount: 49}, true},
		{"free user at limit", &Session{UserID: "a", MessageCount: 50}, false},
		{"free user over limit", &Session{UserID: "a", MessageCount: 51}, false},
		{"premium user at limit", &Session{UserID: "p", IsPremium: true, MessageCount: 50}, true},
		{"premium user far over limit", &Session{UserID: "p", IsPremium: true, MessageCount: 100000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Admit(tt.session); got != tt.want {
				t.Errorf("Admit(count=%d, premium=%v) = %v, want %v",
					tt.session.MessageCount, tt.session.IsPremium, got, tt.want)
			}
		})
	}
}

func TestGateRecordSend(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(50, store)

	s := &Session{UserID: "alice", MessageCount: 3}
	gate.RecordSend(context.Background(), s)

	if s.MessageCount != 4 {
		t.Errorf("MessageCount = %d, want 4", s.MessageCount)
	}
	if len(store.increments) != 1 || store.increments[0] != "alice" {
		t.Errorf("increments = %v, want one increment for alice", store.increments)
	}
}

func TestGateRecordSendStoreFailureStillCounts(t *testing.T) {
	store := newFakeStore()
	store.incErrs = map[string]error{"alice": errors.New("db down")}
	gate := NewGate(50, store)

	s := &Session{UserID: "alice", MessageCount: 49}
	gate.RecordSend(context.Background(), s)

	// The in-memory counter advances regardless, closing the gate for this session.
	if s.MessageCount != 50 {
		t.Errorf("MessageCount = %d, want 50", s.MessageCount)
	}
	if gate.Admit(s) {
		t.Error("Admit = true at limit after failed persist, want false")
	}
}

func TestDeniedSession(t *testing.T) {
	gate := NewGate(50, newFakeStore())

	s := DeniedSession("ghost")
	if s.UserID != "ghost" {
		t.Errorf("UserID = %q, want %q", s.UserID, "ghost")
	}
	if gate.Admit(s) {
		t.Error("Admit = true for denied session, want false")
	}
}

func TestNewSessionSeedsFromUser(t *testing.T) {
	s := NewSession(user.User{ID: "u1", IsPremium: true, MessageCount: 7})

	if s.UserID != "u1" || !s.IsPremium || s.MessageCount != 7 {
		t.Errorf("session = %+v, want seeded from user record", s)
	}
}
