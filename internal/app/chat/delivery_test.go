package chat

import "testing"

// fakeLocal is a localSender backed by a set of "connected" user IDs.
type fakeLocal struct {
	present map[string]bool
	sent    map[string][][]byte
}

func newFakeLocal(userIDs ...string) *fakeLocal {
	present := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		present[id] = true
	}
	return &fakeLocal{
		present: present,
		sent:    make(map[string][][]byte),
	}
}

func (l *fakeLocal) TrySendLocal(userID string, payload []byte) bool {
	if !l.present[userID] {
		return false
	}
	l.sent[userID] = append(l.sent[userID], payload)
	return true
}

// fakePublisher records published envelopes.
type fakePublisher struct {
	published []Envelope
}

func (p *fakePublisher) Publish(env Envelope) {
	p.published = append(p.published, env)
}

func TestDeliverySendLocalHit(t *testing.T) {
	local := newFakeLocal("alice")
	remote := &fakePublisher{}
	d := NewDelivery(local, remote)

	if !d.Send("alice", []byte(`{"type":"chat"}`)) {
		t.Fatal("Send = false, want true")
	}

	if len(local.sent["alice"]) != 1 {
		t.Errorf("local deliveries = %d, want 1", len(local.sent["alice"]))
	}
	if len(remote.published) != 0 {
		t.Errorf("published envelopes = %d, want 0 on local hit", len(remote.published))
	}
}

func TestDeliverySendLocalMissPublishes(t *testing.T) {
	local := newFakeLocal()
	remote := &fakePublisher{}
	d := NewDelivery(local, remote)

	payload := []byte(`{"type":"chat","content":"hi"}`)
	if !d.Send("bob", payload) {
		t.Fatal("Send = false, want true even on local miss")
	}

	if len(remote.published) != 1 {
		t.Fatalf("published envelopes = %d, want 1", len(remote.published))
	}

	env := remote.published[0]
	if env.TargetUserID != "bob" {
		t.Errorf("TargetUserID = %q, want %q", env.TargetUserID, "bob")
	}
	if env.Message != string(payload) {
		t.Errorf("Message = %q, want %q", env.Message, string(payload))
	}
}
