package chat

import "testing"

// fakeConn records delivery attempts and kicks.
type fakeConn struct {
	delivered [][]byte
	deliverOK bool
	kicked    bool
	kickMsg   string
}

func (c *fakeConn) deliver(payload []byte) bool {
	c.delivered = append(c.delivered, payload)
	return c.deliverOK
}

func (c *fakeConn) kick(reason string) {
	c.kicked = true
	c.kickMsg = reason
}

func TestRegistryRegisterReplacesExisting(t *testing.T) {
	r := NewRegistry()

	old := &fakeConn{deliverOK: true}
	replacement := &fakeConn{deliverOK: true}

	r.Register("alice", old)
	r.Register("alice", replacement)

	if !old.kicked {
		t.Error("replaced connection was not kicked")
	}
	if replacement.kicked {
		t.Error("replacement connection must not be kicked")
	}

	if !r.TrySendLocal("alice", []byte("hi")) {
		t.Fatal("TrySendLocal = false, want true for registered user")
	}
	if len(replacement.delivered) != 1 {
		t.Errorf("replacement deliveries = %d, want 1", len(replacement.delivered))
	}
	if len(old.delivered) != 0 {
		t.Errorf("old connection deliveries = %d, want 0", len(old.delivered))
	}
}

func TestRegistryUnregisterIgnoresStaleConn(t *testing.T) {
	r := NewRegistry()

	old := &fakeConn{deliverOK: true}
	replacement := &fakeConn{deliverOK: true}

	r.Register("alice", old)
	r.Register("alice", replacement)

	// The kicked connection's deferred cleanup fires after the replacement
	// has taken the slot. It must not remove the replacement.
	r.Unregister("alice", old)

	if !r.TrySendLocal("alice", []byte("still here")) {
		t.Error("stale unregister removed the active replacement connection")
	}
}

func TestRegistryUnregisterRemovesOwnConn(t *testing.T) {
	r := NewRegistry()

	conn := &fakeConn{deliverOK: true}
	r.Register("bob", conn)
	r.Unregister("bob", conn)

	if r.TrySendLocal("bob", []byte("gone")) {
		t.Error("TrySendLocal = true after unregister, want false")
	}
}

func TestRegistryTrySendLocalUnknownUser(t *testing.T) {
	r := NewRegistry()

	if r.TrySendLocal("nobody", []byte("hi")) {
		t.Error("TrySendLocal = true for unknown user, want false")
	}
}

func TestRegistryTrySendLocalDropsFailedConn(t *testing.T) {
	r := NewRegistry()

	conn := &fakeConn{deliverOK: false}
	r.Register("carol", conn)

	if r.TrySendLocal("carol", []byte("hi")) {
		t.Fatal("TrySendLocal = true for failed write, want false")
	}

	// The entry is gone, so a fresh attempt does not touch the dead conn again.
	if r.TrySendLocal("carol", []byte("again")) {
		t.Error("TrySendLocal = true after entry removal, want false")
	}
	if len(conn.delivered) != 1 {
		t.Errorf("deliveries to dead connection = %d, want 1", len(conn.delivered))
	}
}
