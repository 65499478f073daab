package words

import (
	"math"
	"math/rand"

	"pendu/internal/game"
)

// Level is a difficulty tier
type Level string

const (
	LevelEasy   Level = "easy"
	LevelNormal Level = "normal"
	LevelHard   Level = "hard"
)

// Config holds the gameplay parameters attached to a difficulty level
type Config struct {
	Level           Level
	MaxErrors       int
	ShowCategory    bool
	MinLetters      int
	MaxLetters      int
	ScoreMultiplier float64
	Label           string
}

// Configs maps each level to its parameters. Easy words are short and
// forgiving, hard words are long, hide the category and pay double.
var Configs = map[Level]Config{
	LevelEasy: {
		Level:           LevelEasy,
		MaxErrors:       10,
		ShowCategory:    true,
		MinLetters:      3,
		MaxLetters:      6,
		ScoreMultiplier: 1,
		Label:           "Facile",
	},
	LevelNormal: {
		Level:           LevelNormal,
		MaxErrors:       7,
		ShowCategory:    true,
		MinLetters:      5,
		MaxLetters:      8,
		ScoreMultiplier: 1.5,
		Label:           "Normal",
	},
	LevelHard: {
		Level:           LevelHard,
		MaxErrors:       5,
		ShowCategory:    false,
		MinLetters:      7,
		MaxLetters:      15,
		ScoreMultiplier: 2,
		Label:           "Difficile",
	},
}

// DefaultLevel is the level used when none is selected
const DefaultLevel = LevelNormal

// IsLevel reports whether the value names a known difficulty level
func IsLevel(value string) bool {
	_, ok := Configs[Level(value)]
	return ok
}

// letterCount counts A-Z letters in a word, ignoring spaces, hyphens and
// diacritics
func letterCount(word string) int {
	return game.Score(word)
}

// Classify buckets a word by letter count using the configured upper
// bounds: at most 6 letters is easy, at most 8 is normal, longer is hard
func Classify(word string) Level {
	length := letterCount(word)
	switch {
	case length <= Configs[LevelEasy].MaxLetters:
		return LevelEasy
	case length <= Configs[LevelNormal].MaxLetters:
		return LevelNormal
	default:
		return LevelHard
	}
}

// ByDifficulty returns every list entry classified at the given level
func ByDifficulty(level Level) []Entry {
	matched := make([]Entry, 0)
	for _, e := range List {
		if Classify(e.Word) == level {
			matched = append(matched, e)
		}
	}
	return matched
}

// RandomByDifficulty picks a random word of the given level, skipping
// normalized words present in used. Returns false when the level is
// exhausted; the caller is expected to reset its exclusion set and retry.
func RandomByDifficulty(level Level, used map[string]bool) (Entry, bool) {
	candidates := make([]Entry, 0)
	for _, e := range ByDifficulty(level) {
		if used[game.Normalize(e.Word)] {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}
	return candidates[rand.Intn(len(candidates))], true
}

// MultiplyScore applies the level's score multiplier, rounded to nearest
func MultiplyScore(base int, level Level) int {
	cfg, ok := Configs[level]
	if !ok {
		return base
	}
	return int(math.Round(float64(base) * cfg.ScoreMultiplier))
}
