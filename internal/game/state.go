package game

// Status represents the lifecycle of a single round
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// DefaultMaxErrors is the error budget when no difficulty override is given
const DefaultMaxErrors = 6

// State is the full state of one hangman round.
// It is mutated only through Guess and discarded on the next round.
type State struct {
	// Word is the normalized puzzle (uppercase, diacritics stripped,
	// spaces and hyphens preserved at their original positions)
	Word string `json:"word"`
	// OriginalWord keeps the display form with diacritics, shown at round end
	OriginalWord string `json:"originalWord"`
	// Category is an optional hint
	Category string `json:"category,omitempty"`
	// MaxErrors is the round-specific error budget
	MaxErrors int `json:"maxErrors"`

	CorrectLetters map[rune]bool `json:"-"`
	WrongLetters   map[rune]bool `json:"-"`
	Errors         int           `json:"errors"`
	Status         Status        `json:"status"`
}

// Result is the outcome of a single letter guess
type Result struct {
	Letter    rune
	IsCorrect bool
	// Positions are the zero-indexed occurrences of the letter in the
	// normalized word (empty when wrong or when the round is over)
	Positions []int
}

// Over reports whether the round has reached a terminal status
func (s *State) Over() bool {
	return s.Status == StatusWon || s.Status == StatusLost
}

// RemainingAttempts returns how many wrong guesses are left
func (s *State) RemainingAttempts() int {
	return s.MaxErrors - s.Errors
}

// CanGuess reports whether the letter is playable: the round is live and
// the letter has not been tried yet
func (s *State) CanGuess(letter rune) bool {
	if s.Status != StatusPlaying {
		return false
	}
	l := ToLetter(letter)
	return !s.CorrectLetters[l] && !s.WrongLetters[l]
}

// Guessed reports whether the letter was already tried, correct or not.
// This is the dedupe check guests run before applying a host-relayed guess.
func (s *State) Guessed(letter rune) bool {
	l := ToLetter(letter)
	return s.CorrectLetters[l] || s.WrongLetters[l]
}

// GuessedLetters returns every tried letter, correct and wrong
func (s *State) GuessedLetters() []rune {
	letters := make([]rune, 0, len(s.CorrectLetters)+len(s.WrongLetters))
	for l := range s.CorrectLetters {
		letters = append(letters, l)
	}
	for l := range s.WrongLetters {
		letters = append(letters, l)
	}
	return letters
}
