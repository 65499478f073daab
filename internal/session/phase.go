package session

// Mode selects which of the two multiplayer state machines runs
type Mode string

const (
	// ModeCoop has every player, host included, guessing in round-robin
	ModeCoop Mode = "coop"
	// ModeAdversarial has the host choose the word; only non-host players
	// guess and score
	ModeAdversarial Mode = "pvp"
)

// Phase is the orchestrator's lifecycle stage
type Phase string

const (
	// PhaseLobby: no room yet
	PhaseLobby Phase = "lobby"
	// PhaseWaiting: room open, waiting for players or for the next round
	PhaseWaiting Phase = "waiting"
	// PhaseWordInput: adversarial host is typing the word
	PhaseWordInput Phase = "word-input"
	// PhasePlaying: a round is live
	PhasePlaying Phase = "playing"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}
