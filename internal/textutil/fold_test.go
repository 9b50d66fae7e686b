package textutil_test

import (
	"testing"

	"moviebuff/internal/textutil"
)

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"Inception (Music from the Motion Picture)", "music from", true},
		{"AMÉLIE - Original Soundtrack", "amélie", true},
		{"Straße", "STRASSE", true},
		{"Greatest Hits", "soundtrack", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		if got := textutil.ContainsFold(tt.s, tt.substr); got != tt.want {
			t.Fatalf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}

func TestContainsAnyFold(t *testing.T) {
	if !textutil.ContainsAnyFold("Dune: Part Two (Original Score)", "soundtrack", "original score") {
		t.Fatal("expected keyword match")
	}
	if textutil.ContainsAnyFold("Dune", "", "soundtrack") {
		t.Fatal("expected no match")
	}
}

func TestTruncate(t *testing.T) {
	if got := textutil.Truncate("  short ", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := textutil.Truncate("a long overview text", 7); got != "a long…" {
		t.Fatalf("unexpected %q", got)
	}
	if got := textutil.Truncate("abc", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTernary(t *testing.T) {
	if textutil.Ternary(true, "yes", "no") != "yes" || textutil.Ternary(false, 1, 2) != 2 {
		t.Fatal("unexpected ternary result")
	}
}
