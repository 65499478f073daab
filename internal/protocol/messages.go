package protocol

// Type discriminates the closed set of messages exchanged between peers
type Type string

const (
	// TypeStart carries the new round's word, host to guests
	TypeStart Type = "start"
	// TypeGuess carries a single letter guess; guests send it to the host,
	// the host relays it back to every guest
	TypeGuess Type = "guess"
	// TypeRestart asks guests to roll into the next round, host to guests
	TypeRestart Type = "restart"
	// TypePlayerJoin announces a guest to the host after connecting
	TypePlayerJoin Type = "player_join"
	// TypePlayersUpdate broadcasts the full roster snapshot, host to guests
	TypePlayersUpdate Type = "players_update"
	// TypeTurnChange broadcasts the advanced turn, host to guests
	TypeTurnChange Type = "turn_change"
	// TypeState is a full game-state resync from the host
	TypeState Type = "state"
)

// Version is the protocol version stamped on every envelope. Envelopes
// with a different version are rejected at the validation boundary.
const Version = 1

// Message is the wire envelope: a type discriminator plus a payload whose
// shape is fully determined by the type. Payload holds exactly one of the
// concrete payload structs below.
type Message struct {
	V       int  `json:"v"`
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

// StartPayload starts a round with a word and its category hint
type StartPayload struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// GuessPayload carries one guessed letter, always a single A-Z character
type GuessPayload struct {
	Letter string `json:"letter"`
}

// RestartPayload is intentionally empty
type RestartPayload struct{}

// PlayerJoinPayload is a guest's join request to the host
type PlayerJoinPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PlayerInfo is one roster entry as seen on the wire
type PlayerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsHost  bool   `json:"isHost"`
	IsReady bool   `json:"isReady"`
	Score   int    `json:"score"`
}

// PlayersUpdatePayload is the host's full roster snapshot; guests replace
// their local mirror with it wholesale
type PlayersUpdatePayload struct {
	Players          []PlayerInfo `json:"players"`
	CurrentTurnIndex int          `json:"currentTurnIndex"`
}

// TurnChangePayload announces whose turn it is now
type TurnChangePayload struct {
	CurrentTurnIndex int    `json:"currentTurnIndex"`
	CurrentPlayerID  string `json:"currentPlayerId"`
}

// StatePayload is a full round resync from the host
type StatePayload struct {
	Word           string   `json:"word"`
	Category       string   `json:"category"`
	CorrectLetters []string `json:"correctLetters"`
	WrongLetters   []string `json:"wrongLetters"`
	Errors         int      `json:"errors"`
	Status         string   `json:"status"`
}

// NewStart builds a start message
func NewStart(word, category string) *Message {
	return &Message{V: Version, Type: TypeStart, Payload: &StartPayload{Word: word, Category: category}}
}

// NewGuess builds a guess message for a single letter
func NewGuess(letter rune) *Message {
	return &Message{V: Version, Type: TypeGuess, Payload: &GuessPayload{Letter: string(letter)}}
}

// NewRestart builds a restart message
func NewRestart() *Message {
	return &Message{V: Version, Type: TypeRestart, Payload: &RestartPayload{}}
}

// NewPlayerJoin builds a guest join request
func NewPlayerJoin(playerID, playerName string) *Message {
	return &Message{V: Version, Type: TypePlayerJoin, Payload: &PlayerJoinPayload{PlayerID: playerID, PlayerName: playerName}}
}

// NewPlayersUpdate builds a roster broadcast
func NewPlayersUpdate(players []PlayerInfo, currentTurnIndex int) *Message {
	return &Message{V: Version, Type: TypePlayersUpdate, Payload: &PlayersUpdatePayload{Players: players, CurrentTurnIndex: currentTurnIndex}}
}

// NewTurnChange builds a turn broadcast
func NewTurnChange(currentTurnIndex int, currentPlayerID string) *Message {
	return &Message{V: Version, Type: TypeTurnChange, Payload: &TurnChangePayload{CurrentTurnIndex: currentTurnIndex, CurrentPlayerID: currentPlayerID}}
}

// NewState builds a full game-state resync
func NewState(p *StatePayload) *Message {
	return &Message{V: Version, Type: TypeState, Payload: p}
}
