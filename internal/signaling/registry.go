package signaling

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleRoomTimeout is how long before an unclaimed room is cleaned up
	StaleRoomTimeout = 2 * time.Hour
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var ErrRoomNotFound = errors.New("room not found")

// Room is one registered host address
type Room struct {
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Registry maps room codes to host channel addresses. It is the whole of
// the relay's state: resolve an address given an identifier, nothing more.
type Registry struct {
	rooms          map[string]*Room
	mu             sync.RWMutex
	roomCodeLength int
	logger         *slog.Logger
	done           chan struct{}
}

// NewRegistry creates a registry and starts its stale-room cleanup loop
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		rooms:          make(map[string]*Room),
		roomCodeLength: DefaultRoomCodeLength,
		logger:         logger,
		done:           make(chan struct{}),
	}

	go r.cleanupLoop()

	return r
}

// Register stores a host address under a fresh unique room code
func (r *Registry) Register(address string) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = r.generateRoomCode()
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}
	if _, exists := r.rooms[code]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	room := &Room{Code: code, Address: address, CreatedAt: time.Now()}
	r.rooms[code] = room

	r.logger.Info("room registered", "roomCode", code, "address", address)
	return room, nil
}

// Resolve returns the room registered under code
func (r *Registry) Resolve(code string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Unregister removes a room code
func (r *Registry) Unregister(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; ok {
		delete(r.rooms, code)
		r.logger.Info("room unregistered", "roomCode", code)
	}
}

// Count returns the number of registered rooms
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Close stops the cleanup loop
func (r *Registry) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// generateRoomCode generates a random room code
func (r *Registry) generateRoomCode() string {
	b := make([]byte, r.roomCodeLength)
	rand.Read(b)

	code := make([]byte, r.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically drops stale registrations
func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.cleanupStaleRooms()
		}
	}
}

func (r *Registry) cleanupStaleRooms() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for code, room := range r.rooms {
		if now.Sub(room.CreatedAt) > StaleRoomTimeout {
			delete(r.rooms, code)
			r.logger.Info("stale room cleaned up", "roomCode", code)
		}
	}
}
