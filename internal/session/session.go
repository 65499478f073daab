package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pendu/internal/game"
	"pendu/internal/leaderboard"
	"pendu/internal/protocol"
	"pendu/internal/room"
	"pendu/internal/transport"
	"pendu/internal/words"
)

// Logical rejections. These leave state untouched; callers may surface
// them but the session itself just logs and carries on.
var (
	ErrNotHost         = errors.New("only the host can perform this action")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrHostCannotGuess = errors.New("the word chooser cannot guess")
	ErrNoActiveRound   = errors.New("no active round")
	ErrInvalidPhase    = errors.New("invalid action for current phase")
	ErrEmptyWord       = errors.New("word cannot be empty")
)

// DefaultSettleDelay is slept between channel establishment and sending
// player_join, giving the host time to register the new channel
const DefaultSettleDelay = 300 * time.Millisecond

// WordSource supplies round words. Exhaustion (ok=false) makes the
// orchestrator reset the source and retry once.
type WordSource interface {
	NextByDifficulty(level words.Level) (words.Entry, bool)
	Record(word string)
	Reset()
}

// Options configures a session
type Options struct {
	Mode       Mode
	PlayerName string
	Difficulty words.Level

	Transport transport.Transport
	Words     WordSource
	// Recorder receives one entry per terminal session outcome; nil
	// disables leaderboard recording
	Recorder leaderboard.Recorder
	Logger   *slog.Logger

	// SettleDelay overrides the pre-player_join settle delay
	SettleDelay time.Duration
}

// Session is the per-peer orchestrator. It reconciles local intents with
// the roster, the protocol and the game engine. All cross-callback state
// lives in named fields guarded by one mutex; transport callbacks are
// therefore serialized exactly like the single-threaded event loop the
// protocol assumes.
type Session struct {
	mu sync.Mutex

	mode       Mode
	phase      Phase
	isHost     bool
	localID    string
	playerName string
	difficulty words.Level

	transport transport.Transport
	roster    *room.Roster
	game      *game.State

	// startSent guards against duplicate start broadcasts when the
	// reactive trigger fires more than once for the same round
	startSent bool
	// recorded is the one-shot flag for leaderboard recording, reset when
	// a new session round starts
	recorded     bool
	sessionScore int
	wordsWon     int
	// lastWordScore remembers the value of the round in progress so a win
	// can be tallied when the session ends
	lastWordScore int

	wordsrc     WordSource
	recorder    leaderboard.Recorder
	logger      *slog.Logger
	settleDelay time.Duration
}

// New creates a session and wires it to the transport. Handler
// registration happens here, so any messages the transport buffered
// before the session existed are flushed into it immediately.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Difficulty == "" {
		opts.Difficulty = words.DefaultLevel
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	s := &Session{
		mode:        opts.Mode,
		phase:       PhaseLobby,
		playerName:  strings.TrimSpace(opts.PlayerName),
		difficulty:  opts.Difficulty,
		transport:   opts.Transport,
		wordsrc:     opts.Words,
		recorder:    opts.Recorder,
		logger:      opts.Logger,
		settleDelay: opts.SettleDelay,
	}

	s.transport.OnMessage(s.handleMessage)
	s.transport.OnDisconnect(s.handleDisconnect)

	return s
}

// CreateRoom opens a room with this peer as host and returns the room
// code other players join with
func (s *Session) CreateRoom(ctx context.Context) (string, error) {
	localID, err := s.transport.CreateRoom(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.isHost = true
	s.localID = localID
	s.roster = room.New(localID, s.playerName)
	s.roster.ExcludeHostFromTurns = s.mode == ModeAdversarial
	s.phase = PhaseWaiting
	s.mu.Unlock()

	s.logger.Info("room created", "roomCode", localID, "mode", s.mode)
	return localID, nil
}

// JoinRoom connects to a host's room. After the transport confirms our
// identity a short settle delay is applied before player_join is sent:
// channel-open order between the two sides is not deterministic, and the
// delay gives the host time to register the channel. The host tolerates
// duplicate joins, so a lost join can simply be retried by the caller.
func (s *Session) JoinRoom(ctx context.Context, roomCode string) error {
	if err := s.transport.JoinRoom(ctx, roomCode); err != nil {
		return err
	}

	localID := s.transport.LocalID()

	s.mu.Lock()
	s.isHost = false
	s.localID = localID
	s.roster = room.NewMirror()
	s.roster.ExcludeHostFromTurns = s.mode == ModeAdversarial
	s.phase = PhaseWaiting
	s.mu.Unlock()

	time.Sleep(s.settleDelay)
	s.transport.Send(protocol.NewPlayerJoin(localID, s.playerName))

	s.logger.Info("joined room", "roomCode", roomCode, "peerId", localID)
	return nil
}

// StartRound starts a cooperative round with a random word (host only).
// An exhausted word source is reset and retried once.
func (s *Session) StartRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isHost {
		return ErrNotHost
	}
	if s.mode != ModeCoop {
		return ErrInvalidPhase
	}

	entry, ok := s.wordsrc.NextByDifficulty(s.difficulty)
	if !ok {
		s.wordsrc.Reset()
		entry, ok = s.wordsrc.NextByDifficulty(s.difficulty)
		if !ok {
			return fmt.Errorf("no words available for difficulty %q", s.difficulty)
		}
	}
	s.wordsrc.Record(entry.Word)

	s.startRoundLocked(entry.Word, entry.Category)
	return nil
}

// EnterWordInput moves the adversarial host to the word-input phase
func (s *Session) EnterWordInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isHost {
		return ErrNotHost
	}
	if s.mode != ModeAdversarial {
		return ErrInvalidPhase
	}
	s.phase = PhaseWordInput
	return nil
}

// StartRoundWithWord starts an adversarial round with the host's chosen
// word (host only)
func (s *Session) StartRoundWithWord(word, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isHost {
		return ErrNotHost
	}
	if s.mode != ModeAdversarial {
		return ErrInvalidPhase
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}
	if category = strings.TrimSpace(category); category == "" {
		category = "PvP"
	}

	s.startRoundLocked(word, category)
	return nil
}

// startRoundLocked installs the new round and fires the reactive start
// broadcast. Caller holds the lock.
func (s *Session) startRoundLocked(word, category string) {
	s.game = game.New(word, category, s.maxErrors())
	s.lastWordScore = game.Score(word)
	s.phase = PhasePlaying
	s.startSent = false
	s.recorded = false
	s.maybeBroadcastStartLocked()
}

// maybeBroadcastStartLocked sends the start message once the host's own
// game state for the round exists. The broadcast is triggered by the
// state transition itself, never by a delay after the UI action, and the
// startSent flag keeps a re-fired trigger from duplicating it.
func (s *Session) maybeBroadcastStartLocked() {
	if !s.isHost || s.phase != PhasePlaying || s.game == nil || s.startSent {
		return
	}
	s.startSent = true
	s.transport.Send(protocol.NewStart(s.game.Word, s.game.Category))
}

// Guess submits a letter from the local player.
//
// Guests apply the guess optimistically before sending, keeping the UI
// responsive; the host's relay of the same letter is deduped by the
// already-guessed check. The host applies, relays the identical guess to
// every guest including the originator, and advances the turn. The two
// approaches are not mixed: optimistic apply is the rule everywhere.
func (s *Session) Guess(letter rune) (game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying || s.game == nil {
		return game.Result{}, ErrNoActiveRound
	}
	if s.mode == ModeAdversarial && s.isHost {
		s.logger.Warn("word chooser attempted a guess")
		return game.Result{}, ErrHostCannotGuess
	}
	if !s.roster.IsTurn(s.localID) {
		s.logger.Warn("guess out of turn", "peerId", s.localID)
		return game.Result{}, ErrNotYourTurn
	}

	result := s.game.Guess(letter)
	s.transport.Send(protocol.NewGuess(result.Letter))

	if s.isHost {
		s.advanceTurnLocked()
	}
	s.maybeRecordDefeatLocked()

	return result, nil
}

// advanceTurnLocked moves the turn forward and broadcasts it. Only the
// host computes turn advancement; guests are passive recipients.
func (s *Session) advanceTurnLocked() {
	next := s.roster.AdvanceTurn()
	if next == nil {
		return
	}
	s.transport.Send(protocol.NewTurnChange(s.roster.CurrentTurnIndex, next.ID))
}

// broadcastRosterLocked sends the full roster snapshot captured now.
// Every host-side roster or turn mutation is followed by this, which is
// what lets drifted guests self-heal without a repair protocol.
func (s *Session) broadcastRosterLocked() {
	s.transport.Send(protocol.NewPlayersUpdate(s.roster.Snapshot(), s.roster.CurrentTurnIndex))
}

// ContinueSession rolls into the next round after a win, accruing the
// finished word's score. Cooperative: the host accrues here and starts
// the next round; guests accrue when the restart arrives. Adversarial:
// the host never scores and returns to word input.
func (s *Session) ContinueSession() error {
	s.mu.Lock()

	if !s.isHost {
		s.mu.Unlock()
		return ErrNotHost
	}
	if s.game == nil {
		s.mu.Unlock()
		return ErrNoActiveRound
	}

	finished := s.game.Word

	switch s.mode {
	case ModeCoop:
		s.sessionScore += game.Score(finished)
		s.wordsWon++
		s.recorded = false
		s.transport.Send(protocol.NewRestart())
		s.mu.Unlock()
		return s.StartRound()

	case ModeAdversarial:
		// Word chooser accrues nothing
		s.wordsWon++
		s.recorded = false
		s.game = nil
		s.phase = PhaseWordInput
		s.transport.Send(protocol.NewRestart())
		s.mu.Unlock()
		return nil
	}

	s.mu.Unlock()
	return ErrInvalidPhase
}

// EndSession tears the session down. A session that ends on a won round
// records the final tally for scoring roles; defeats were already
// recorded when they happened.
func (s *Session) EndSession() {
	s.mu.Lock()
	if s.game != nil && s.game.Status == game.StatusWon && !s.recorded && s.scoringRole() {
		s.recorded = true
		s.record(s.sessionScore+s.lastWordScore, s.wordsWon+1, 0, true)
	}
	s.phase = PhaseLobby
	s.game = nil
	s.roster = nil
	s.sessionScore = 0
	s.wordsWon = 0
	s.startSent = false
	s.mu.Unlock()

	s.transport.Close()
}

// scoringRole reports whether the local player accrues score in this
// mode: everyone in cooperative, guessers only in adversarial
func (s *Session) scoringRole() bool {
	return s.mode == ModeCoop || !s.isHost
}

// maybeRecordDefeatLocked records the session outcome exactly once when a
// round is lost. The one-shot flag is reset when the next round starts.
func (s *Session) maybeRecordDefeatLocked() {
	if s.game == nil || s.game.Status != game.StatusLost || s.recorded {
		return
	}
	if !s.scoringRole() {
		return
	}
	s.recorded = true
	s.record(s.sessionScore, s.wordsWon, s.game.Errors, false)
}

// record writes one leaderboard entry; no-op without a recorder
func (s *Session) record(score, wordCount, errorCount int, won bool) {
	if s.recorder == nil || s.playerName == "" {
		return
	}
	entry := leaderboard.Entry{
		PlayerName: s.playerName,
		Mode:       string(s.mode),
		Score:      score,
		Word:       fmt.Sprintf("%d mots", wordCount),
		Errors:     errorCount,
		Won:        won,
	}
	if err := s.recorder.AddEntry(entry); err != nil {
		s.logger.Warn("failed to record leaderboard entry", "error", err)
	}
}

// maxErrors returns the round error budget for the configured difficulty
func (s *Session) maxErrors() int {
	if cfg, ok := words.Configs[s.difficulty]; ok {
		return cfg.MaxErrors
	}
	return game.DefaultMaxErrors
}

// Accessors used by the UI layer. Each takes the lock and returns copies;
// callers never touch live orchestrator state.

// Phase returns the current phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IsHost reports whether this peer created the room
func (s *Session) IsHost() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isHost
}

// LocalID returns the transport identity, empty before connecting
func (s *Session) LocalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localID
}

// Players returns a copy of the roster in turn order
func (s *Session) Players() []room.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roster == nil {
		return nil
	}
	players := make([]room.Player, len(s.roster.Players))
	copy(players, s.roster.Players)
	return players
}

// CurrentPlayer returns the player whose turn it is, nil when no round is
// in progress
func (s *Session) CurrentPlayer() *room.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roster == nil {
		return nil
	}
	return s.roster.CurrentPlayer()
}

// IsMyTurn reports whether the local player may guess right now
func (s *Session) IsMyTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhasePlaying && s.roster != nil && s.roster.IsTurn(s.localID)
}

// Game returns a snapshot of the live round, nil between rounds
func (s *Session) Game() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return nil
	}
	snapshot := *s.game
	snapshot.CorrectLetters = make(map[rune]bool, len(s.game.CorrectLetters))
	for l := range s.game.CorrectLetters {
		snapshot.CorrectLetters[l] = true
	}
	snapshot.WrongLetters = make(map[rune]bool, len(s.game.WrongLetters))
	for l := range s.game.WrongLetters {
		snapshot.WrongLetters[l] = true
	}
	return &snapshot
}

// SessionScore returns the cumulative score and won-word count
func (s *Session) SessionScore() (score, wordsWon int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionScore, s.wordsWon
}
