package chat

// publisher is the part of the Bridge the facade needs.
type publisher interface {
	Publish(env Envelope)
}

// Delivery is the unified send operation used by message handlers. It composes
// the local registry and the broadcast bridge so callers never know whether the
// recipient's socket lives in this process or another one.
//
// The contract is at-most-once, best-effort: once a frame is handed to the
// bridge there is no confirmation that any process holds the recipient's
// connection, and an offline recipient silently loses the frame. There are no
// delivery receipts and no offline queueing.
type Delivery struct {
	local  localSender
	remote publisher
}

// NewDelivery constructs the delivery facade over a registry and a bridge.
func NewDelivery(local localSender, remote publisher) *Delivery {
	return &Delivery{
		local:  local,
		remote: remote,
	}
}

// Send delivers payload to the user with the given ID. Local connections are
// tried first; on a miss the frame is published for whichever process owns the
// connection. The return value reports acceptance, not confirmed delivery.
func (d *Delivery) Send(userID string, payload []byte) bool {
	if d.local.TrySendLocal(userID, payload) {
		return true
	}

	d.remote.Publish(Envelope{
		TargetUserID: userID,
		Message:      string(payload),
	})

	return true
}
