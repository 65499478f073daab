package room

import (
	"errors"
	"time"

	"pendu/internal/protocol"
)

// MaxPlayers is the room capacity, host included
const MaxPlayers = 6

// MinPlayers is the minimum to start a multiplayer round
const MinPlayers = 2

var (
	ErrRoomFull        = errors.New("room is full")
	ErrDuplicatePlayer = errors.New("player already in room")
	ErrPlayerNotFound  = errors.New("player not found")
)

// Player is one roster entry. The host-side roster is the single source of
// truth; guest-side copies are read-only mirrors.
type Player struct {
	ID       string
	Name     string
	IsHost   bool
	IsReady  bool
	Score    int
	JoinedAt time.Time
}

// Roster is the ordered list of players in a room together with the
// current turn index. Order is turn order. Only the host mutates a
// roster; guests overwrite theirs wholesale from players_update.
//
// When ExcludeHostFromTurns is set (adversarial mode) the turn index
// addresses the non-host subset instead of the full list.
type Roster struct {
	Players              []Player
	CurrentTurnIndex     int
	ExcludeHostFromTurns bool
}

// New creates a roster seeded with the host as its first, ready entry
func New(hostID, hostName string) *Roster {
	return &Roster{
		Players: []Player{{
			ID:       hostID,
			Name:     hostName,
			IsHost:   true,
			IsReady:  true,
			JoinedAt: time.Now(),
		}},
	}
}

// NewMirror creates an empty guest-side mirror
func NewMirror() *Roster {
	return &Roster{Players: []Player{}}
}

// Active returns the turn-order subset: every player in cooperative mode,
// guessers only in adversarial mode
func (r *Roster) Active() []Player {
	if !r.ExcludeHostFromTurns {
		return r.Players
	}
	return r.Guessers()
}

// Guessers returns the non-host players in roster order
func (r *Roster) Guessers() []Player {
	guessers := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsHost {
			guessers = append(guessers, p)
		}
	}
	return guessers
}

// Add appends a player to the end of the roster. Rejected when the room
// is at capacity or the id is already present.
func (r *Roster) Add(id, name string) (*Player, error) {
	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	for i := range r.Players {
		if r.Players[i].ID == id {
			return nil, ErrDuplicatePlayer
		}
	}
	r.Players = append(r.Players, Player{
		ID:       id,
		Name:     name,
		IsReady:  true,
		JoinedAt: time.Now(),
	})
	return &r.Players[len(r.Players)-1], nil
}

// Remove drops a player and repairs the turn index relative to the active
// subset: the index is decremented only when the removed slot preceded it,
// then wrapped to 0 if it fell off the shrunken end. Removing the entry at
// the turn index therefore hands the turn to whoever slid into that slot.
func (r *Roster) Remove(id string) bool {
	removedActive := -1
	for i, p := range r.Active() {
		if p.ID == id {
			removedActive = i
			break
		}
	}

	found := false
	kept := r.Players[:0]
	for _, p := range r.Players {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return false
	}
	r.Players = kept

	if removedActive != -1 && removedActive < r.CurrentTurnIndex {
		r.CurrentTurnIndex--
		if r.CurrentTurnIndex < 0 {
			r.CurrentTurnIndex = 0
		}
	}
	if r.CurrentTurnIndex >= len(r.Active()) {
		r.CurrentTurnIndex = 0
	}
	return true
}

// Get returns the player with the given id
func (r *Roster) Get(id string) (*Player, error) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i], nil
		}
	}
	return nil, ErrPlayerNotFound
}

// AddScore adds points to a player's cumulative session score
func (r *Roster) AddScore(id string, points int) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			r.Players[i].Score += points
			return
		}
	}
}

// SetReady flips a player's readiness flag
func (r *Roster) SetReady(id string, ready bool) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			r.Players[i].IsReady = ready
			return
		}
	}
}

// AllReady reports whether enough players have joined and all are ready
func (r *Roster) AllReady() bool {
	if len(r.Players) < MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// AdvanceTurn moves the turn to the next player in the active subset and
// returns them. Returns nil when the subset is empty.
func (r *Roster) AdvanceTurn() *Player {
	active := r.Active()
	if len(active) == 0 {
		return nil
	}
	r.CurrentTurnIndex = (r.CurrentTurnIndex + 1) % len(active)
	next := active[r.CurrentTurnIndex]
	return &next
}

// CurrentPlayer returns the player whose turn it is, nil when the active
// subset is empty or the index is out of range
func (r *Roster) CurrentPlayer() *Player {
	active := r.Active()
	if r.CurrentTurnIndex < 0 || r.CurrentTurnIndex >= len(active) {
		return nil
	}
	current := active[r.CurrentTurnIndex]
	return &current
}

// IsTurn reports whether it is the given player's turn
func (r *Roster) IsTurn(id string) bool {
	current := r.CurrentPlayer()
	return current != nil && current.ID == id
}

// Snapshot captures the roster as wire payload entries. Callers broadcast
// the snapshot taken at mutation time rather than re-reading shared state.
func (r *Roster) Snapshot() []protocol.PlayerInfo {
	players := make([]protocol.PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, protocol.PlayerInfo{
			ID:      p.ID,
			Name:    p.Name,
			IsHost:  p.IsHost,
			IsReady: p.IsReady,
			Score:   p.Score,
		})
	}
	return players
}

// ApplyUpdate overwrites a guest-side mirror with the host's snapshot.
// Mirrors never merge; the incoming update is the sole source of truth.
func (r *Roster) ApplyUpdate(players []protocol.PlayerInfo, currentTurnIndex int) {
	r.Players = make([]Player, 0, len(players))
	for _, p := range players {
		r.Players = append(r.Players, Player{
			ID:      p.ID,
			Name:    p.Name,
			IsHost:  p.IsHost,
			IsReady: p.IsReady,
			Score:   p.Score,
		})
	}
	r.CurrentTurnIndex = currentTurnIndex
}
