package match_test

import (
	"testing"

	"bookscout/internal/match"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Left Hand of Darkness", "left hand of darkness"},
		{"Dune: The Saga Begins", "dune"},
		{"Mistborn (Book 1)", "mistborn"},
		{"The Way of Kings (#2)", "way of kings"},
		{"Foundation #3", "foundation"},
		{"  Piranesi  ", "piranesi"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := match.NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAuthor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"J.R.R. Tolkien", "jrr tolkien"},
		{"Ursula K. Le Guin", "ursula k le guin"},
		{"China Miéville", "china mieville"},
		{"  Ken   Liu ", "ken liu"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := match.NormalizeAuthor(tc.in); got != tc.want {
			t.Errorf("NormalizeAuthor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"The Left Hand of Darkness",
		"Dune: The Saga Begins",
		"J.R.R. Tolkien",
		"China Miéville",
	}
	for _, in := range inputs {
		once := match.NormalizeTitle(in)
		if twice := match.NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q vs %q", in, once, twice)
		}
		onceA := match.NormalizeAuthor(in)
		if twiceA := match.NormalizeAuthor(onceA); twiceA != onceA {
			t.Errorf("NormalizeAuthor not idempotent for %q: %q vs %q", in, onceA, twiceA)
		}
	}
}

func TestKey(t *testing.T) {
	got := match.Key("The Left Hand of Darkness", "Ursula K. Le Guin")
	want := "left hand of darkness|ursula k le guin"
	if got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestAreDuplicatesExactKeyFastPath(t *testing.T) {
	if !match.AreDuplicates("The Hobbit", "J.R.R. Tolkien", "Hobbit", "JRR Tolkien", match.DefaultThreshold) {
		t.Fatal("expected normalized-equal entries to match")
	}
}

func TestAreDuplicatesFuzzyAuthorVariants(t *testing.T) {
	if !match.AreDuplicates(
		"The Left Hand of Darkness", "Ursula K. Le Guin",
		"Left Hand of Darkness", "Ursula LeGuin",
		match.DefaultThreshold,
	) {
		t.Fatal("expected LeGuin spelling variants to match")
	}
}

func TestAreDuplicatesRejectsDifferentBooks(t *testing.T) {
	if match.AreDuplicates(
		"The Left Hand of Darkness", "Ursula K. Le Guin",
		"The Dispossessed", "Ursula K. Le Guin",
		match.DefaultThreshold,
	) {
		t.Fatal("different titles by the same author must not match")
	}
}

func TestAreDuplicatesIsSymmetric(t *testing.T) {
	pairs := [][4]string{
		{"The Left Hand of Darkness", "Ursula K. Le Guin", "Left Hand of Darkness", "Ursula LeGuin"},
		{"Piranesi", "Susanna Clarke", "The Dispossessed", "Ursula K. Le Guin"},
		{"", "", "Piranesi", "Susanna Clarke"},
	}
	for _, p := range pairs {
		forward := match.AreDuplicates(p[0], p[1], p[2], p[3], match.DefaultThreshold)
		backward := match.AreDuplicates(p[2], p[3], p[0], p[1], match.DefaultThreshold)
		if forward != backward {
			t.Errorf("asymmetric result for %v: %v vs %v", p, forward, backward)
		}
	}
}

func TestRatioTokenOrderInsensitive(t *testing.T) {
	if got := match.Ratio("ken liu", "liu ken"); got != 100 {
		t.Fatalf("Ratio(reordered tokens) = %d, want 100", got)
	}
}

func TestRatioSpacingInsensitive(t *testing.T) {
	if got := match.Ratio("ursula k le guin", "ursula leguin"); got < match.ReadThreshold {
		t.Fatalf("Ratio(spacing variants) = %d, want >= %d", got, match.ReadThreshold)
	}
}

func TestRatioEmptyInput(t *testing.T) {
	if got := match.Ratio("", "piranesi"); got != 0 {
		t.Fatalf("Ratio with empty side = %d, want 0", got)
	}
	if got := match.Ratio("", ""); got != 100 {
		t.Fatalf("Ratio of two empty strings = %d, want 100", got)
	}
}
