/*
Package chat contains the core logic for realtime message delivery.

This file defines the Dispatcher, which routes inbound frames to the business
handler registered for their type tag. The handler set is closed: new message
types are a controlled extension point, not open dispatch.
*/
package chat

import (
	"context"
	"encoding/json"

	"dmchat/internal/app/user"
)

// InfoIncremented is the handler result signalling the quota gate that a
// billable send occurred and the sender's counter must advance.
const InfoIncremented = "incremented"

// Deps bundles the collaborators a message handler may call.
type Deps struct {
	Delivery *Delivery
	Store    Store
	Uploads  Uploads

	// MaxFreeFileBytes is the upload size limit for non-premium users.
	MaxFreeFileBytes int64
}

// HandlerFunc is the uniform signature for message handlers. The boolean
// reports handler success; the info string is InfoIncremented for billable
// sends and diagnostic text otherwise.
type HandlerFunc func(ctx context.Context, deps *Deps, sender user.User, payload json.RawMessage) (bool, string)

// Dispatcher maps message type tags to their handlers.
type Dispatcher struct {
	deps     *Deps
	handlers map[string]HandlerFunc
}

// NewDispatcher builds the dispatch table for the supported message types.
func NewDispatcher(deps *Deps) *Dispatcher {
	return &Dispatcher{
		deps: deps,
		handlers: map[string]HandlerFunc{
			TypeChat:         handleChatMessage,
			TypeFileRequest:  handleFileRequest,
			TypeFileUploaded: handleFileUploaded,
		},
	}
}

// Dispatch invokes the handler registered for msgType. The third return value
// reports whether a handler existed; callers surface an error frame for
// unknown types.
func (d *Dispatcher) Dispatch(ctx context.Context, msgType string, sender user.User, payload json.RawMessage) (bool, string, bool) {
	handler, ok := d.handlers[msgType]
	if !ok {
		return false, "", false
	}

	success, info := handler(ctx, d.deps, sender, payload)
	return success, info, true
}
