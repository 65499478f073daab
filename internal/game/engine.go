package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining diacritical marks,
// so "éléphant" normalizes to "ELEPHANT" while spaces and hyphens survive
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize uppercases a word and strips diacritics, preserving literal
// space and hyphen characters at their original positions
func Normalize(word string) string {
	out, _, err := transform.String(stripMarks, word)
	if err != nil {
		out = word
	}
	return strings.ToUpper(out)
}

// IsLetter reports whether the rune is an uppercase-normalizable A-Z letter
func IsLetter(r rune) bool {
	u := unicode.ToUpper(r)
	return u >= 'A' && u <= 'Z'
}

// ToLetter canonicalizes a guessed rune to its uppercase form
func ToLetter(r rune) rune {
	return unicode.ToUpper(r)
}

// New creates a round for the given word. It never fails: an empty word is
// a degenerate round that is trivially winnable. maxErrors <= 0 selects the
// default budget.
func New(word, category string, maxErrors int) *State {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &State{
		Word:           Normalize(word),
		OriginalWord:   word,
		Category:       category,
		MaxErrors:      maxErrors,
		CorrectLetters: make(map[rune]bool),
		WrongLetters:   make(map[rune]bool),
		Errors:         0,
		Status:         StatusPlaying,
	}
}

// positions returns every zero-indexed occurrence of letter in word
func positions(word string, letter rune) []int {
	found := []int{}
	for i, r := range []rune(word) {
		if r == letter {
			found = append(found, i)
		}
	}
	return found
}

// won reports whether every letter of the word has been guessed,
// ignoring spaces and hyphens
func (s *State) won() bool {
	for _, r := range s.Word {
		if !IsLetter(r) {
			continue
		}
		if !s.CorrectLetters[r] {
			return false
		}
	}
	return true
}

// Guess applies a letter to the round.
//
// Repeat letters are idempotent: the state is left untouched and the prior
// correctness is reported. Once the round is won or lost every further
// guess is a no-op. Victory is checked before defeat, so filling the last
// blank on the final allowed error still wins.
func (s *State) Guess(letter rune) Result {
	l := ToLetter(letter)

	if s.Status != StatusPlaying {
		return Result{Letter: l, IsCorrect: false, Positions: []int{}}
	}

	if s.CorrectLetters[l] {
		return Result{Letter: l, IsCorrect: true, Positions: positions(s.Word, l)}
	}
	if s.WrongLetters[l] {
		return Result{Letter: l, IsCorrect: false, Positions: []int{}}
	}

	found := positions(s.Word, l)
	correct := len(found) > 0

	if correct {
		s.CorrectLetters[l] = true
	} else {
		s.WrongLetters[l] = true
		s.Errors++
	}

	if s.won() {
		s.Status = StatusWon
	} else if s.Errors >= s.MaxErrors {
		s.Status = StatusLost
	}

	return Result{Letter: l, IsCorrect: correct, Positions: found}
}

// Display projects the word for rendering: guessed letters are revealed,
// hidden letters become '_', spaces and hyphens pass through
func (s *State) Display() []rune {
	out := make([]rune, 0, len(s.Word))
	for _, r := range s.Word {
		switch {
		case r == ' ' || r == '-':
			out = append(out, r)
		case s.CorrectLetters[r]:
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return out
}

// Score computes the value of a word: the count of A-Z runes in its
// normalized form. Spaces, hyphens and digits do not count, and diacritics
// do not change the result.
func Score(word string) int {
	count := 0
	for _, r := range Normalize(word) {
		if r >= 'A' && r <= 'Z' {
			count++
		}
	}
	return count
}
