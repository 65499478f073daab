package words

import (
	"math/rand"
	"strings"

	"pendu/internal/game"
)

// SessionMemory tracks which words have already been played in the current
// session so consecutive rounds never repeat a word
type SessionMemory struct {
	used map[string]bool
}

// NewSessionMemory creates an empty memory
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{used: make(map[string]bool)}
}

// Next picks a random unused word, optionally filtered by category.
// Returns false when every candidate has been played.
func (m *SessionMemory) Next(category string) (Entry, bool) {
	candidates := make([]Entry, 0)
	for _, e := range List {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if m.used[game.Normalize(e.Word)] {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}
	return candidates[rand.Intn(len(candidates))], true
}

// NextByDifficulty picks a random unused word at the given level
func (m *SessionMemory) NextByDifficulty(level Level) (Entry, bool) {
	return RandomByDifficulty(level, m.used)
}

// Record marks a word as played
func (m *SessionMemory) Record(word string) {
	m.used[game.Normalize(word)] = true
}

// Used reports whether a word has been played this session
func (m *SessionMemory) Used(word string) bool {
	return m.used[game.Normalize(word)]
}

// Reset forgets every played word, making the full list available again
func (m *SessionMemory) Reset() {
	m.used = make(map[string]bool)
}

// Stats returns how many words were played and how many remain
func (m *SessionMemory) Stats() (used, remaining int) {
	return len(m.used), len(List) - len(m.used)
}
