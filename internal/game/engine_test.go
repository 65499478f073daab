package game

import (
	"testing"
)

func TestNormalizeStripsDiacritics(t *testing.T) {
	cases := map[string]string{
		"éléphant":    "ELEPHANT",
		"pendu":       "PENDU",
		"arc en ciel": "ARC EN CIEL",
		"tire-bouchon": "TIRE-BOUCHON",
		"Noël":        "NOEL",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuessWinsRound(t *testing.T) {
	st := New("pendu", "Jeux", 7)

	for _, l := range "PENDU" {
		result := st.Guess(l)
		if !result.IsCorrect {
			t.Fatalf("letter %c should be correct", l)
		}
	}

	if st.Status != StatusWon {
		t.Fatalf("expected status won, got %s", st.Status)
	}
	if st.Errors != 0 {
		t.Fatalf("expected 0 errors, got %d", st.Errors)
	}
}

func TestGuessLosesRoundAtErrorBudget(t *testing.T) {
	st := New("pendu", "Jeux", 3)

	for _, l := range "XYZ" {
		result := st.Guess(l)
		if result.IsCorrect {
			t.Fatalf("letter %c should be wrong", l)
		}
	}

	if st.Status != StatusLost {
		t.Fatalf("expected status lost after 3 errors, got %s", st.Status)
	}
	if st.Errors != 3 {
		t.Fatalf("expected 3 errors, got %d", st.Errors)
	}
}

func TestGuessRepeatIsIdempotent(t *testing.T) {
	st := New("pendu", "Jeux", 7)

	st.Guess('Z')
	if st.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", st.Errors)
	}

	// Repeating a wrong letter must not cost a second error
	result := st.Guess('Z')
	if result.IsCorrect {
		t.Fatal("repeated wrong letter should still report wrong")
	}
	if st.Errors != 1 {
		t.Fatalf("expected errors to stay at 1, got %d", st.Errors)
	}

	st.Guess('P')
	result = st.Guess('P')
	if !result.IsCorrect {
		t.Fatal("repeated correct letter should still report correct")
	}
	if len(result.Positions) != 1 || result.Positions[0] != 0 {
		t.Fatalf("repeated correct letter should re-report positions, got %v", result.Positions)
	}
}

func TestGuessAfterTerminalStateIsNoOp(t *testing.T) {
	st := New("ab", "Test", 1)
	st.Guess('Z')
	if st.Status != StatusLost {
		t.Fatalf("expected lost, got %s", st.Status)
	}

	st.Guess('A')
	if st.CorrectLetters['A'] {
		t.Fatal("guess after terminal state must not mutate state")
	}
	if st.Status != StatusLost {
		t.Fatalf("terminal status must not change, got %s", st.Status)
	}
}

func TestGuessWinOnLastAllowedError(t *testing.T) {
	// Filling the last blank while one error short of the budget still wins
	st := New("a", "Test", 2)
	st.Guess('Z')
	st.Guess('A')
	if st.Status != StatusWon {
		t.Fatalf("expected won, got %s", st.Status)
	}
}

func TestGuessLowercaseCanonicalized(t *testing.T) {
	st := New("pendu", "Jeux", 7)
	result := st.Guess('p')
	if result.Letter != 'P' {
		t.Fatalf("expected canonical letter P, got %c", result.Letter)
	}
	if !result.IsCorrect {
		t.Fatal("lowercase guess of a present letter should be correct")
	}
}

func TestGuessAccentedWordMatchesPlainLetter(t *testing.T) {
	st := New("éléphant", "Animaux", 7)
	result := st.Guess('E')
	if !result.IsCorrect {
		t.Fatal("E should match the accented letters of éléphant")
	}
	// ELEPHANT: positions 0, 2
	if len(result.Positions) != 2 || result.Positions[0] != 0 || result.Positions[1] != 2 {
		t.Fatalf("expected positions [0 2], got %v", result.Positions)
	}
}

func TestDisplayRevealsGuessedAndSeparators(t *testing.T) {
	st := New("arc en ciel", "Nature", 10)
	st.Guess('C')
	st.Guess('E')

	got := string(st.Display())
	want := "__C E_ C_E_"
	if got != want {
		t.Fatalf("Display() = %q, want %q", got, want)
	}
}

func TestMultiWordRoundIgnoresSeparatorsForVictory(t *testing.T) {
	st := New("arc en ciel", "Nature", 10)
	for _, l := range "ARCENIL" {
		st.Guess(l)
	}
	if st.Status != StatusWon {
		t.Fatalf("expected won once all letters guessed, got %s", st.Status)
	}
}

func TestScoreCountsLettersOnly(t *testing.T) {
	cases := map[string]int{
		"pendu":        5,
		"arc en ciel":  9,
		"tire-bouchon": 11,
		"éléphant":     8,
		"":             0,
	}
	for word, want := range cases {
		if got := Score(word); got != want {
			t.Fatalf("Score(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestNewDefaultsErrorBudget(t *testing.T) {
	st := New("pendu", "Jeux", 0)
	if st.MaxErrors != DefaultMaxErrors {
		t.Fatalf("expected default budget %d, got %d", DefaultMaxErrors, st.MaxErrors)
	}
}
