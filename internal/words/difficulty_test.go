package words

import (
	"testing"

	"pendu/internal/game"
)

func TestClassifyByLetterCount(t *testing.T) {
	cases := map[string]Level{
		"chat":         LevelEasy,   // 4 letters
		"fleur":        LevelEasy,   // 5 letters
		"girafe":       LevelEasy,   // 6 letters is the easy ceiling
		"autruche":     LevelNormal, // 8 letters is the normal ceiling
		"tire-bouchon": LevelHard,   // 11 letters, hyphen ignored
	}
	for word, want := range cases {
		if got := Classify(word); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", word, got, want)
		}
	}
}

func TestClassifyIgnoresDiacriticsAndSeparators(t *testing.T) {
	// "arc en ciel" is 9 letters once spaces are dropped
	if got := Classify("arc en ciel"); got != LevelHard {
		t.Fatalf("Classify(arc en ciel) = %s, want %s", got, LevelHard)
	}
	if Classify("éléphant") != Classify("elephant") {
		t.Fatal("diacritics must not change classification")
	}
}

func TestConfigsErrorBudgets(t *testing.T) {
	if Configs[LevelEasy].MaxErrors != 10 {
		t.Fatalf("easy budget = %d, want 10", Configs[LevelEasy].MaxErrors)
	}
	if Configs[LevelNormal].MaxErrors != 7 {
		t.Fatalf("normal budget = %d, want 7", Configs[LevelNormal].MaxErrors)
	}
	if Configs[LevelHard].MaxErrors != 5 {
		t.Fatalf("hard budget = %d, want 5", Configs[LevelHard].MaxErrors)
	}
	if Configs[LevelHard].ShowCategory {
		t.Fatal("hard mode must hide the category")
	}
}

func TestByDifficultyPartitionsList(t *testing.T) {
	total := 0
	for _, level := range []Level{LevelEasy, LevelNormal, LevelHard} {
		matched := ByDifficulty(level)
		total += len(matched)
		for _, e := range matched {
			if Classify(e.Word) != level {
				t.Fatalf("word %q classified %s but returned for %s", e.Word, Classify(e.Word), level)
			}
		}
	}
	if total != len(List) {
		t.Fatalf("levels cover %d words, list has %d", total, len(List))
	}
}

func TestRandomByDifficultySkipsUsedWords(t *testing.T) {
	pool := ByDifficulty(LevelEasy)
	if len(pool) == 0 {
		t.Fatal("word list must contain easy words")
	}

	used := make(map[string]bool)
	for range pool {
		entry, ok := RandomByDifficulty(LevelEasy, used)
		if !ok {
			t.Fatal("pool exhausted before every word was drawn")
		}
		key := game.Normalize(entry.Word)
		if used[key] {
			t.Fatalf("word %q drawn twice", entry.Word)
		}
		used[key] = true
	}

	if _, ok := RandomByDifficulty(LevelEasy, used); ok {
		t.Fatal("exhausted pool should report no candidates")
	}
}

func TestSessionMemoryTracksAndResets(t *testing.T) {
	m := NewSessionMemory()

	entry, ok := m.NextByDifficulty(LevelNormal)
	if !ok {
		t.Fatal("fresh memory should always produce a word")
	}
	m.Record(entry.Word)

	if !m.Used(entry.Word) {
		t.Fatal("recorded word should be marked used")
	}
	usedCount, _ := m.Stats()
	if usedCount != 1 {
		t.Fatalf("expected 1 used word, got %d", usedCount)
	}

	m.Reset()
	if m.Used(entry.Word) {
		t.Fatal("reset must forget played words")
	}
}

func TestSessionMemoryNextFiltersByCategory(t *testing.T) {
	m := NewSessionMemory()
	category := List[0].Category

	entry, ok := m.Next(category)
	if !ok {
		t.Fatalf("category %q should have candidates", category)
	}
	if entry.Category != category {
		t.Fatalf("expected category %q, got %q", category, entry.Category)
	}

	if _, ok := m.Next("no-such-category"); ok {
		t.Fatal("unknown category should have no candidates")
	}
}

func TestMultiplyScoreRoundsToNearest(t *testing.T) {
	if got := MultiplyScore(5, LevelEasy); got != 5 {
		t.Fatalf("easy multiplier should be identity, got %d", got)
	}
	// 5 * 1.5 = 7.5 rounds to 8
	if got := MultiplyScore(5, LevelNormal); got != 8 {
		t.Fatalf("MultiplyScore(5, normal) = %d, want 8", got)
	}
	if got := MultiplyScore(5, LevelHard); got != 10 {
		t.Fatalf("MultiplyScore(5, hard) = %d, want 10", got)
	}
	if got := MultiplyScore(5, Level("bogus")); got != 5 {
		t.Fatalf("unknown level should be identity, got %d", got)
	}
}

func TestIsLevel(t *testing.T) {
	for _, valid := range []string{"easy", "normal", "hard"} {
		if !IsLevel(valid) {
			t.Fatalf("%q should be a valid level", valid)
		}
	}
	if IsLevel("extreme") {
		t.Fatal("unknown level name should be rejected")
	}
}
