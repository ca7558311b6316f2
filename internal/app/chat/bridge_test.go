package chat

import (
	"encoding/json"
	"testing"

	"dmchat/internal/pkg/logx"
)

func newTestBridge(local localSender) *Bridge {
	return &Bridge{
		local:  local,
		topic:  "chat:broadcast",
		logger: logx.Logger().With().Str("component", "bridge").Logger(),
	}
}

func TestBridgeHandleEnvelopeDeliversLocally(t *testing.T) {
	local := newFakeLocal("alice")
	b := newTestBridge(local)

	frame := `{"type":"chat","content":"hi"}`
	payload, err := json.Marshal(Envelope{TargetUserID: "alice", Message: frame})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	b.handleEnvelope(payload)

	if len(local.sent["alice"]) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(local.sent["alice"]))
	}
	if got := string(local.sent["alice"][0]); got != frame {
		t.Errorf("delivered payload = %q, want %q", got, frame)
	}
}

func TestBridgeHandleEnvelopeMissIsSilent(t *testing.T) {
	local := newFakeLocal()
	b := newTestBridge(local)

	payload, _ := json.Marshal(Envelope{TargetUserID: "bob", Message: "{}"})

	// Must not panic and must not deliver anywhere.
	b.handleEnvelope(payload)

	if len(local.sent) != 0 {
		t.Errorf("deliveries = %v, want none for unconnected target", local.sent)
	}
}

func TestBridgeHandleEnvelopeMalformed(t *testing.T) {
	local := newFakeLocal("alice")
	b := newTestBridge(local)

	b.handleEnvelope([]byte("not json"))

	if len(local.sent["alice"]) != 0 {
		t.Error("malformed envelope must be dropped, not delivered")
	}
}

func TestBridgeHandleEnvelopeMissingTarget(t *testing.T) {
	local := newFakeLocal("alice")
	b := newTestBridge(local)

	payload, _ := json.Marshal(Envelope{TargetUserID: "", Message: "{}"})
	b.handleEnvelope(payload)

	if len(local.sent["alice"]) != 0 {
		t.Error("envelope without target must be dropped")
	}
}

func TestBridgePublishDegradedDrops(t *testing.T) {
	b := newTestBridge(newFakeLocal())
	b.degraded = true

	// Publish with no broker client must not panic in degraded mode.
	b.Publish(Envelope{TargetUserID: "alice", Message: "{}"})
}
