package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"pendu/internal/protocol"
)

// memChannelDepth is the per-link queue depth. Each link preserves
// per-channel ordering; there is no cross-channel ordering, matching the
// real transport.
const memChannelDepth = 256

// MemoryNetwork is an in-process star network implementing the same
// Transport contract as the websocket peer, including the encode/decode
// round trip, so orchestrator behavior can be exercised without sockets.
type MemoryNetwork struct {
	mu    sync.Mutex
	rooms map[string]*MemoryPeer
}

// NewMemoryNetwork creates an empty network
func NewMemoryNetwork() *MemoryNetwork {
	return &MemoryNetwork{rooms: make(map[string]*MemoryPeer)}
}

// NewPeer creates an unconnected peer attached to this network
func (n *MemoryNetwork) NewPeer(logger *slog.Logger) *MemoryPeer {
	return &MemoryPeer{
		network: n,
		disp:    newDispatcher(logger),
		logger:  logger,
		status:  StatusDisconnected,
		links:   make(map[string]*memLink),
	}
}

// MemoryPeer is one participant in a MemoryNetwork
type MemoryPeer struct {
	network *MemoryNetwork
	disp    *dispatcher
	logger  *slog.Logger

	mu      sync.Mutex
	localID string
	status  Status
	links   map[string]*memLink
	closed  bool
}

// memLink is one direction of a channel: messages queued here are
// delivered, in order, to the remote peer's dispatcher
type memLink struct {
	remote *MemoryPeer
	queue  chan []byte
	done   chan struct{}
	once   sync.Once
}

func (l *memLink) close() {
	l.once.Do(func() { close(l.done) })
}

// CreateRoom registers this peer as a host under a fresh room code
func (p *MemoryPeer) CreateRoom(ctx context.Context) (string, error) {
	code := uuid.NewString()

	p.network.mu.Lock()
	p.network.rooms[code] = p
	p.network.mu.Unlock()

	p.mu.Lock()
	p.localID = code
	p.status = StatusConnected
	p.mu.Unlock()
	return code, nil
}

// JoinRoom links this peer with the host registered under remoteID
func (p *MemoryPeer) JoinRoom(ctx context.Context, remoteID string) error {
	p.network.mu.Lock()
	host, ok := p.network.rooms[remoteID]
	p.network.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: no room %q", ErrPeerUnreachable, remoteID)
	}

	p.mu.Lock()
	if p.localID == "" {
		p.localID = uuid.NewString()
	}
	localID := p.localID
	p.mu.Unlock()

	p.link(remoteID, host)
	host.link(localID, p)
	return nil
}

// link opens an outbound link to remote and starts its delivery pump
func (p *MemoryPeer) link(remoteID string, remote *MemoryPeer) {
	l := &memLink{
		remote: remote,
		queue:  make(chan []byte, memChannelDepth),
		done:   make(chan struct{}),
	}

	p.mu.Lock()
	p.links[remoteID] = l
	p.status = StatusConnected
	localID := p.localID
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-l.done:
				return
			case data := <-l.queue:
				msg, err := protocol.Decode(data)
				if err != nil {
					remote.logger.Warn("dropping invalid message", "peerId", localID, "error", err)
					continue
				}
				remote.disp.deliver(msg, localID)
			}
		}
	}()
}

// Send broadcasts to every open link, dropping on full queues
func (p *MemoryPeer) Send(msg *protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		p.logger.Warn("dropping unencodable message", "type", msg.Type, "error", err)
		return
	}

	p.mu.Lock()
	links := make([]*memLink, 0, len(p.links))
	for _, l := range p.links {
		links = append(links, l)
	}
	p.mu.Unlock()

	for _, l := range links {
		select {
		case l.queue <- data:
		default:
			p.logger.Warn("send buffer full, message dropped")
		}
	}
}

func (p *MemoryPeer) OnMessage(handler MessageHandler) {
	p.disp.setMessageHandler(handler)
}

func (p *MemoryPeer) OnDisconnect(handler DisconnectHandler) {
	p.disp.setDisconnectHandler(handler)
}

func (p *MemoryPeer) LocalID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localID
}

func (p *MemoryPeer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Close drops every link and notifies the remote side of each
func (p *MemoryPeer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	links := p.links
	p.links = make(map[string]*memLink)
	localID := p.localID
	p.status = StatusDisconnected
	p.mu.Unlock()

	p.network.mu.Lock()
	if p.network.rooms[localID] == p {
		delete(p.network.rooms, localID)
	}
	p.network.mu.Unlock()

	for _, l := range links {
		l.close()
		l.remote.dropLink(localID)
	}
}

// dropLink removes the reverse link after the remote side closed
func (p *MemoryPeer) dropLink(remoteID string) {
	p.mu.Lock()
	l, ok := p.links[remoteID]
	if ok {
		delete(p.links, remoteID)
	}
	if len(p.links) == 0 && !p.closed {
		p.status = StatusDisconnected
	}
	closed := p.closed
	p.mu.Unlock()

	if !ok || closed {
		return
	}
	l.close()
	p.disp.notifyDisconnect(remoteID)
}
