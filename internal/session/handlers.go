package session

import (
	"pendu/internal/game"
	"pendu/internal/protocol"
	"pendu/internal/room"
)

// handleMessage is the single inbound dispatch point. The transport has
// already schema-validated the message; anything still surprising here is
// a logical rejection and gets logged, never panicked on.
func (s *Session) handleMessage(msg *protocol.Message, fromID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch payload := msg.Payload.(type) {
	case *protocol.StartPayload:
		s.handleStart(payload)
	case *protocol.GuessPayload:
		s.handleGuess(payload, fromID)
	case *protocol.RestartPayload:
		s.handleRestart()
	case *protocol.PlayerJoinPayload:
		s.handlePlayerJoin(payload)
	case *protocol.PlayersUpdatePayload:
		s.handlePlayersUpdate(payload)
	case *protocol.TurnChangePayload:
		s.handleTurnChange(payload)
	case *protocol.StatePayload:
		s.handleState(payload)
	default:
		s.logger.Warn("dropping message with unhandled payload", "type", msg.Type, "from", fromID)
	}
}

// handleStart installs the host's round on a guest
func (s *Session) handleStart(payload *protocol.StartPayload) {
	if s.isHost {
		return
	}
	s.game = game.New(payload.Word, payload.Category, s.maxErrors())
	s.lastWordScore = game.Score(payload.Word)
	s.phase = PhasePlaying
	s.recorded = false
}

// handleGuess applies a remote guess.
//
// On the host this is a guest's guess arriving over the star topology:
// apply it, relay the identical message to every guest (the originator
// included), and advance the turn. On a guest it is a host relay: the
// already-guessed check makes the echo of our own optimistic guess a
// no-op instead of a double count.
func (s *Session) handleGuess(payload *protocol.GuessPayload, fromID string) {
	if s.phase != PhasePlaying || s.game == nil {
		s.logger.Warn("dropping guess outside active round", "from", fromID)
		return
	}

	letter := rune(payload.Letter[0])

	if s.isHost {
		if s.roster != nil && !s.roster.IsTurn(fromID) {
			s.logger.Warn("dropping guess out of turn", "from", fromID)
			return
		}
		if !s.game.Guessed(letter) {
			s.game.Guess(letter)
		}
		s.transport.Send(protocol.NewGuess(letter))
		s.advanceTurnLocked()
	} else {
		if !s.game.Guessed(letter) {
			s.game.Guess(letter)
		}
	}

	s.maybeRecordDefeatLocked()
}

// handleRestart rolls a guest into the next round. The finished word's
// score accrues here for scoring roles; the authoritative new round
// arrives with the host's next start broadcast.
func (s *Session) handleRestart() {
	if s.isHost {
		return
	}

	if s.game != nil && s.game.Status == game.StatusWon && s.scoringRole() {
		s.sessionScore += game.Score(s.game.Word)
		s.wordsWon++
	}
	s.recorded = false
	s.game = nil
	s.phase = PhaseWaiting
}

// handlePlayerJoin registers a guest on the host's roster. Duplicate
// joins are no-ops, never errors: the join protocol tells guests to
// resend when unsure. The updated roster snapshot is broadcast
// immediately, captured at mutation time.
func (s *Session) handlePlayerJoin(payload *protocol.PlayerJoinPayload) {
	if !s.isHost {
		return
	}

	if _, err := s.roster.Get(payload.PlayerID); err == nil {
		s.broadcastRosterLocked()
		return
	}

	if _, err := s.roster.Add(payload.PlayerID, payload.PlayerName); err != nil {
		s.logger.Warn("rejecting join", "playerId", payload.PlayerID, "error", err)
		return
	}

	s.logger.Info("player joined", "playerId", payload.PlayerID, "name", payload.PlayerName)
	s.broadcastRosterLocked()

	// Late joiner during a live round: resync the full game state so it
	// converges without waiting for the next round
	if s.phase == PhasePlaying && s.game != nil {
		s.transport.Send(protocol.NewState(statePayload(s.game)))
	}
}

// handlePlayersUpdate overwrites the guest-side roster mirror wholesale
func (s *Session) handlePlayersUpdate(payload *protocol.PlayersUpdatePayload) {
	if s.isHost {
		return
	}
	if s.roster == nil {
		s.roster = room.NewMirror()
		s.roster.ExcludeHostFromTurns = s.mode == ModeAdversarial
	}
	s.roster.ApplyUpdate(payload.Players, payload.CurrentTurnIndex)
}

// handleTurnChange applies the host's turn broadcast. Guests never
// advance their own index; this message is the only way it moves.
func (s *Session) handleTurnChange(payload *protocol.TurnChangePayload) {
	if s.isHost || s.roster == nil {
		return
	}
	s.roster.CurrentTurnIndex = payload.CurrentTurnIndex
}

// handleState replaces the guest's round with the host's full resync
func (s *Session) handleState(payload *protocol.StatePayload) {
	if s.isHost {
		return
	}

	st := game.New(payload.Word, payload.Category, s.maxErrors())
	for _, l := range payload.CorrectLetters {
		st.CorrectLetters[rune(l[0])] = true
	}
	for _, l := range payload.WrongLetters {
		st.WrongLetters[rune(l[0])] = true
	}
	st.Errors = payload.Errors
	st.Status = game.Status(payload.Status)

	s.game = st
	s.lastWordScore = game.Score(payload.Word)
	s.phase = PhasePlaying
}

// handleDisconnect reacts to a channel closing. The host removes the
// player, lets the roster repair the turn index against the mode's active
// subset, and re-broadcasts so every survivor converges. Guests losing
// their only channel have lost the host; the session is over for them.
func (s *Session) handleDisconnect(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isHost {
		if s.roster == nil || !s.roster.Remove(peerID) {
			return
		}
		s.logger.Info("player disconnected", "playerId", peerID)
		s.broadcastRosterLocked()
		return
	}

	s.logger.Warn("lost connection to host", "peerId", peerID)
	s.phase = PhaseLobby
	s.game = nil
}

// statePayload projects a round into the wire resync format
func statePayload(st *game.State) *protocol.StatePayload {
	correct := make([]string, 0, len(st.CorrectLetters))
	for l := range st.CorrectLetters {
		correct = append(correct, string(l))
	}
	wrong := make([]string, 0, len(st.WrongLetters))
	for l := range st.WrongLetters {
		wrong = append(wrong, string(l))
	}
	return &protocol.StatePayload{
		Word:           st.Word,
		Category:       st.Category,
		CorrectLetters: correct,
		WrongLetters:   wrong,
		Errors:         st.Errors,
		Status:         string(st.Status),
	}
}
