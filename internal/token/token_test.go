package token_test

import (
	"reflect"
	"testing"

	"github.com/verselabs/chime/internal/token"
)

func TestRhymeWord_Basic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{"The cat sat on the mat.", "mat", true},
		{"SHOUTING LOUDLY!", "loudly", true},
		{"trailing dashes —", "dashes", true},
		{"«quoted» words", "words", true},
		{"…", "", false},
		{"", "", false},
		{"?!—…", "", false},
	}
	for _, c := range cases {
		got, ok := token.RhymeWord(c.line)
		if got != c.want || ok != c.ok {
			t.Errorf("RhymeWord(%q) = %q, %v; want %q, %v", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestRhymeWord_PossessiveMerging(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want string
	}{
		{"it was john's", "johns"},
		{"upon the nape's", "napes"},
		{"say you don't", "dont"},
	}
	for _, c := range cases {
		got, ok := token.RhymeWord(c.line)
		if !ok || got != c.want {
			t.Errorf("RhymeWord(%q) = %q, %v; want %q, true", c.line, got, ok, c.want)
		}
	}
}

func TestTokenize_SeparatesPunctuation(t *testing.T) {
	t.Parallel()

	got := token.Tokenize("Stop, now!")
	want := []string{"Stop", ",", "now", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_KeepsCliticsTogether(t *testing.T) {
	t.Parallel()

	got := token.Tokenize("john's book")
	want := []string{"john", "'s", "book"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestWords_DropsPunctuationTokens(t *testing.T) {
	t.Parallel()

	got := token.Words("— hello , world !")
	want := []string{"hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestTrimTrailing(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"a line ends here...  ", "a line ends here"},
		{"no change", "no change"},
		{"dash —", "dash"},
	}
	for _, c := range cases {
		if got := token.TrimTrailing(c.in); got != c.want {
			t.Errorf("TrimTrailing(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFinalNgram(t *testing.T) {
	t.Parallel()

	cases := []struct {
		word string
		n    int
		want string
	}{
		{"moonlight", 3, "ght"},
		{"cat", 3, "cat"},
		{"at", 3, "at"},
		// Combining marks stay glued to their base letters.
		{"señor", 4, "eñor"},
		{"noč", 2, "oč"},
	}
	for _, c := range cases {
		if got := token.FinalNgram(c.word, c.n); got != c.want {
			t.Errorf("FinalNgram(%q, %d) = %q, want %q", c.word, c.n, got, c.want)
		}
	}
}

func TestIsPunctToken(t *testing.T) {
	t.Parallel()

	if !token.IsPunctToken("—…") {
		t.Error("IsPunctToken(—…) = false, want true")
	}
	if token.IsPunctToken("'s") {
		t.Error("IsPunctToken('s) = true, want false")
	}
	if token.IsPunctToken("") {
		t.Error("IsPunctToken(\"\") = true, want false")
	}
}
