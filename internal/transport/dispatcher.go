package transport

import (
	"log/slog"
	"sync"

	"pendu/internal/protocol"
)

// pendingBufferSize bounds how many messages are held for a handler that
// has not been registered yet. The oldest messages are kept; overflow is
// dropped with a warning.
const pendingBufferSize = 50

type inbound struct {
	msg  *protocol.Message
	from string
}

// dispatcher implements the single-slot handler contract shared by every
// transport: at most one active message handler and one active disconnect
// handler, with bounded buffering of early arrivals.
type dispatcher struct {
	mu           sync.Mutex
	onMessage    MessageHandler
	onDisconnect DisconnectHandler
	pending      []inbound
	logger       *slog.Logger
}

func newDispatcher(logger *slog.Logger) *dispatcher {
	return &dispatcher{logger: logger}
}

// deliver hands a message to the registered handler, or buffers it when no
// handler has been registered yet. The handler runs outside the lock so it
// may call back into the transport.
func (d *dispatcher) deliver(msg *protocol.Message, fromID string) {
	d.mu.Lock()
	handler := d.onMessage
	if handler == nil {
		if len(d.pending) >= pendingBufferSize {
			d.mu.Unlock()
			d.logger.Warn("message buffer full, dropping message", "type", msg.Type, "from", fromID)
			return
		}
		d.pending = append(d.pending, inbound{msg: msg, from: fromID})
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	handler(msg, fromID)
}

// setMessageHandler registers the handler, replacing any previous one, and
// flushes buffered messages in arrival order
func (d *dispatcher) setMessageHandler(handler MessageHandler) {
	d.mu.Lock()
	d.onMessage = handler
	flush := d.pending
	d.pending = nil
	d.mu.Unlock()

	if handler == nil {
		return
	}
	for _, in := range flush {
		handler(in.msg, in.from)
	}
}

func (d *dispatcher) setDisconnectHandler(handler DisconnectHandler) {
	d.mu.Lock()
	d.onDisconnect = handler
	d.mu.Unlock()
}

func (d *dispatcher) notifyDisconnect(peerID string) {
	d.mu.Lock()
	handler := d.onDisconnect
	d.mu.Unlock()

	if handler != nil {
		handler(peerID)
	}
}
