package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pendu/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the per-channel send buffer
	sendBufferSize = 64

	// DefaultJoinTimeout bounds how long JoinRoom may take end to end
	DefaultJoinTimeout = 10 * time.Second
)

// WSConfig configures a websocket peer
type WSConfig struct {
	// SignalingURL is the base URL of the signaling relay
	SignalingURL string
	// ListenAddr is the bind address for accepting guest channels when
	// hosting ("127.0.0.1:0" picks a free port)
	ListenAddr string
	// AdvertiseHost overrides the host part of the address registered with
	// the relay, for peers behind address translation
	AdvertiseHost string
	// JoinTimeout bounds JoinRoom; zero selects DefaultJoinTimeout
	JoinTimeout time.Duration
}

// WSPeer is the websocket rendering of the Transport contract. The host
// listens for guest channels and registers its address with the signaling
// relay under a fresh room code; guests resolve the code and dial direct.
type WSPeer struct {
	cfg       WSConfig
	signaling *SignalingClient
	disp      *dispatcher
	logger    *slog.Logger

	mu       sync.Mutex
	localID  string
	status   Status
	channels map[string]*wsChannel
	server   *http.Server
	listener net.Listener
	closed   bool
}

// NewWSPeer creates an unconnected websocket peer
func NewWSPeer(cfg WSConfig, logger *slog.Logger) *WSPeer {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = DefaultJoinTimeout
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "0.0.0.0:0"
	}
	return &WSPeer{
		cfg:       cfg,
		signaling: NewSignalingClient(cfg.SignalingURL),
		disp:      newDispatcher(logger),
		logger:    logger,
		status:    StatusDisconnected,
		channels:  make(map[string]*wsChannel),
	}
}

// CreateRoom opens the listening channel and registers it with the relay.
// The returned local id is the room code guests join with.
func (p *WSPeer) CreateRoom(ctx context.Context) (string, error) {
	p.mu.Lock()
	p.status = StatusConnecting
	p.mu.Unlock()

	listener, err := net.Listen("tcp", p.cfg.ListenAddr)
	if err != nil {
		p.setStatus(StatusError)
		return "", fmt.Errorf("%w: listen: %v", ErrSignaling, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/channel", p.acceptChannel)
	server := &http.Server{Handler: mux}
	go server.Serve(listener)

	address := p.advertiseURL(listener.Addr())
	code, err := p.signaling.Register(ctx, address)
	if err != nil {
		server.Close()
		listener.Close()
		p.setStatus(StatusError)
		return "", err
	}

	p.mu.Lock()
	p.localID = code
	p.server = server
	p.listener = listener
	p.status = StatusConnected
	p.mu.Unlock()

	p.logger.Info("room created", "roomCode", code, "address", address)
	return code, nil
}

// JoinRoom resolves the remote identity through the relay and dials it
// directly. The whole operation is bounded by the configured timeout; on
// failure any partially established state is torn down first.
func (p *WSPeer) JoinRoom(ctx context.Context, remoteID string) error {
	p.mu.Lock()
	if p.localID == "" {
		p.localID = uuid.NewString()
	}
	localID := p.localID
	p.status = StatusConnecting
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.JoinTimeout)
	defer cancel()

	address, err := p.signaling.Resolve(ctx, remoteID)
	if err != nil {
		if ctx.Err() != nil {
			p.setStatus(StatusError)
			return fmt.Errorf("%w: resolving %q", ErrConnectionTimeout, remoteID)
		}
		p.setStatus(StatusError)
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: p.cfg.JoinTimeout}
	conn, _, err := dialer.DialContext(ctx, address+"?peerId="+localID, nil)
	if err != nil {
		p.setStatus(StatusError)
		if ctx.Err() != nil {
			return fmt.Errorf("%w: dialing %q", ErrConnectionTimeout, remoteID)
		}
		return fmt.Errorf("%w: dial %q: %v", ErrPeerUnreachable, remoteID, err)
	}

	p.addChannel(remoteID, conn)
	p.logger.Info("joined room", "roomCode", remoteID, "peerId", localID)
	return nil
}

// Send broadcasts a message to every open channel. Channels whose buffers
// are full, or that are not open yet, are skipped without retry.
func (p *WSPeer) Send(msg *protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		p.logger.Warn("dropping unencodable message", "type", msg.Type, "error", err)
		return
	}

	p.mu.Lock()
	channels := make([]*wsChannel, 0, len(p.channels))
	for _, ch := range p.channels {
		channels = append(channels, ch)
	}
	p.mu.Unlock()

	for _, ch := range channels {
		ch.enqueue(data)
	}
}

// OnMessage registers the message handler; see Transport for the
// single-slot and buffering semantics
func (p *WSPeer) OnMessage(handler MessageHandler) {
	p.disp.setMessageHandler(handler)
}

// OnDisconnect registers the disconnect handler, replacing any previous one
func (p *WSPeer) OnDisconnect(handler DisconnectHandler) {
	p.disp.setDisconnectHandler(handler)
}

// LocalID returns the transport-assigned identity, empty before CreateRoom
// or JoinRoom has completed
func (p *WSPeer) LocalID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localID
}

// Status returns the coarse connection state
func (p *WSPeer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Close tears down every channel, the listener and the relay registration
func (p *WSPeer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	channels := p.channels
	p.channels = make(map[string]*wsChannel)
	server := p.server
	listener := p.listener
	localID := p.localID
	wasHost := server != nil
	p.status = StatusDisconnected
	p.mu.Unlock()

	for _, ch := range channels {
		ch.close()
	}
	if server != nil {
		server.Close()
	}
	if listener != nil {
		listener.Close()
	}
	if wasHost && localID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.signaling.Unregister(ctx, localID); err != nil {
			p.logger.Debug("relay unregister failed", "roomCode", localID, "error", err)
		}
	}
}

func (p *WSPeer) setStatus(status Status) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}

// advertiseURL builds the channel URL registered with the relay
func (p *WSPeer) advertiseURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "ws://" + addr.String() + "/channel"
	}
	if p.cfg.AdvertiseHost != "" {
		host = p.cfg.AdvertiseHost
	} else if host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "ws://" + net.JoinHostPort(host, port) + "/channel"
}

// acceptChannel upgrades an incoming guest connection
func (p *WSPeer) acceptChannel(w http.ResponseWriter, r *http.Request) {
	peerID := r.URL.Query().Get("peerId")
	if peerID == "" {
		http.Error(w, "peerId is required", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	p.addChannel(peerID, conn)
	p.logger.Info("guest channel opened", "peerId", peerID)
}

// addChannel registers a channel and starts its pumps
func (p *WSPeer) addChannel(peerID string, conn *websocket.Conn) {
	ch := &wsChannel{
		peer:   p,
		peerID: peerID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}

	p.mu.Lock()
	if old, ok := p.channels[peerID]; ok {
		go old.close()
	}
	p.channels[peerID] = ch
	p.status = StatusConnected
	p.mu.Unlock()

	go ch.writePump()
	go ch.readPump()
}

// removeChannel drops a channel from the active set; closing the last one
// transitions the peer to disconnected
func (p *WSPeer) removeChannel(ch *wsChannel) {
	p.mu.Lock()
	current, ok := p.channels[ch.peerID]
	if ok && current == ch {
		delete(p.channels, ch.peerID)
	}
	if len(p.channels) == 0 && !p.closed {
		p.status = StatusDisconnected
	}
	closed := p.closed
	p.mu.Unlock()

	if ok && current == ch && !closed {
		p.disp.notifyDisconnect(ch.peerID)
	}
}

// wsChannel is one reliable ordered channel to a remote peer
type wsChannel struct {
	peer   *WSPeer
	peerID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// enqueue queues data for the write pump without blocking. A full buffer
// drops the message; reliability lives one layer up.
func (ch *wsChannel) enqueue(data []byte) {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.mu.Unlock()

	select {
	case ch.send <- data:
	default:
		ch.peer.logger.Warn("send buffer full, message dropped", "peerId", ch.peerID)
	}
}

func (ch *wsChannel) close() {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	close(ch.done)
	ch.mu.Unlock()
	ch.conn.Close()
}

// readPump validates every inbound frame at the boundary; malformed
// messages are dropped with a warning and never reach the orchestrator
func (ch *wsChannel) readPump() {
	defer func() {
		ch.close()
		ch.peer.removeChannel(ch)
	}()

	ch.conn.SetReadLimit(maxMessageSize)
	ch.conn.SetReadDeadline(time.Now().Add(pongWait))
	ch.conn.SetPongHandler(func(string) error {
		ch.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := ch.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ch.peer.logger.Debug("websocket read error", "peerId", ch.peerID, "error", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			ch.peer.logger.Warn("dropping invalid message", "peerId", ch.peerID, "error", err)
			continue
		}
		ch.peer.disp.deliver(msg, ch.peerID)
	}
}

func (ch *wsChannel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ch.conn.Close()
	}()

	for {
		select {
		case <-ch.done:
			return
		case data := <-ch.send:
			ch.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ch.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			ch.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ch.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
