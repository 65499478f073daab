package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Validation errors. Every inbound message is schema-checked at the
// transport boundary; failures are dropped by the caller with a warning
// and never crash the session.
var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrVersion        = errors.New("unsupported protocol version")
)

// maxNameLength bounds player display names
const maxNameLength = 50

// Encode serializes a message for the wire
func Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses and validates a wire message. Unknown types, unknown
// fields, missing fields and out-of-range values are all rejected with an
// error; unrecognized types are never treated as a default no-op branch.
func Decode(data []byte) (*Message, error) {
	var envelope struct {
		V       int             `json:"v"`
		Type    Type            `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if envelope.V != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, envelope.V, Version)
	}

	msg := &Message{V: envelope.V, Type: envelope.Type}

	switch envelope.Type {
	case TypeStart:
		p := &StartPayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if p.Word == "" {
			return nil, fmt.Errorf("%w: start requires a word", ErrInvalidPayload)
		}
		msg.Payload = p

	case TypeGuess:
		p := &GuessPayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if !validLetter(p.Letter) {
			return nil, fmt.Errorf("%w: guess letter must be a single A-Z character", ErrInvalidPayload)
		}
		msg.Payload = p

	case TypeRestart:
		p := &RestartPayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		msg.Payload = p

	case TypePlayerJoin:
		p := &PlayerJoinPayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if p.PlayerID == "" {
			return nil, fmt.Errorf("%w: player_join requires playerId", ErrInvalidPayload)
		}
		if len(p.PlayerName) == 0 || len(p.PlayerName) > maxNameLength {
			return nil, fmt.Errorf("%w: playerName must be 1-%d characters", ErrInvalidPayload, maxNameLength)
		}
		msg.Payload = p

	case TypePlayersUpdate:
		p := &PlayersUpdatePayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if p.CurrentTurnIndex < 0 {
			return nil, fmt.Errorf("%w: currentTurnIndex must be >= 0", ErrInvalidPayload)
		}
		for _, player := range p.Players {
			if player.ID == "" {
				return nil, fmt.Errorf("%w: player id must not be empty", ErrInvalidPayload)
			}
			if len(player.Name) == 0 || len(player.Name) > maxNameLength {
				return nil, fmt.Errorf("%w: player name must be 1-%d characters", ErrInvalidPayload, maxNameLength)
			}
			if player.Score < 0 {
				return nil, fmt.Errorf("%w: player score must be >= 0", ErrInvalidPayload)
			}
		}
		msg.Payload = p

	case TypeTurnChange:
		p := &TurnChangePayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if p.CurrentTurnIndex < 0 {
			return nil, fmt.Errorf("%w: currentTurnIndex must be >= 0", ErrInvalidPayload)
		}
		if p.CurrentPlayerID == "" {
			return nil, fmt.Errorf("%w: turn_change requires currentPlayerId", ErrInvalidPayload)
		}
		msg.Payload = p

	case TypeState:
		p := &StatePayload{}
		if err := strictUnmarshal(envelope.Payload, p); err != nil {
			return nil, err
		}
		if p.Word == "" {
			return nil, fmt.Errorf("%w: state requires a word", ErrInvalidPayload)
		}
		if p.Errors < 0 {
			return nil, fmt.Errorf("%w: errors must be >= 0", ErrInvalidPayload)
		}
		if p.Status != "playing" && p.Status != "won" && p.Status != "lost" {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, p.Status)
		}
		for _, l := range append(append([]string{}, p.CorrectLetters...), p.WrongLetters...) {
			if !validLetter(l) {
				return nil, fmt.Errorf("%w: state letters must be single A-Z characters", ErrInvalidPayload)
			}
		}
		msg.Payload = p

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}

	return msg, nil
}

// strictUnmarshal decodes a payload rejecting unknown fields, so an
// envelope can never mix fields from two message types
func strictUnmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// validLetter reports whether s is exactly one uppercase A-Z character
func validLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}
