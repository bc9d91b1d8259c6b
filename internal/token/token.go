// Package token implements the orthographic text boundary of the rhyme
// engine: word tokenization, the punctuation class, line-final rhyme-word
// extraction, and grapheme-aware final n-gram slicing.
//
// The tokenizer is deliberately small. It splits on whitespace, separates
// leading and trailing punctuation runs into their own tokens, and keeps an
// apostrophe-led suffix ("'s", "'ll") attached as a single token so that
// possessives can be merged back onto the preceding word by [RhymeWord].
package token

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// asciiPunct mirrors the ASCII punctuation set.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// extraPunct extends the class with punctuation common in poetic corpora.
const extraPunct = "¿«»¡…“”‘’–—"

// IsPunct reports whether r belongs to the punctuation class.
func IsPunct(r rune) bool {
	return strings.ContainsRune(asciiPunct, r) || strings.ContainsRune(extraPunct, r)
}

// IsPunctToken reports whether tok consists solely of punctuation.
func IsPunctToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !IsPunct(r) {
			return false
		}
	}
	return true
}

// StripPunct removes every punctuation rune from s.
func StripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !IsPunct(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TrimTrailing removes any run of punctuation and spaces from the end of s.
// Lines are cleaned this way before being handed to the transcriber so that
// sentence punctuation does not leak into the IPA stream.
func TrimTrailing(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r == ' ' || IsPunct(r)
	})
}

// Tokenize splits line into word and punctuation tokens. Punctuation runs
// become separate tokens; an apostrophe immediately followed by letters
// stays glued to those letters ("john's" yields "john" and "'s").
func Tokenize(line string) []string {
	var tokens []string
	for _, field := range strings.Fields(line) {
		tokens = append(tokens, splitField(field)...)
	}
	return tokens
}

// splitField breaks a whitespace-free field into alternating runs of
// punctuation and non-punctuation, then re-attaches "'x…" suffixes.
func splitField(field string) []string {
	runes := []rune(field)
	var runs []string
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || IsPunct(runes[i]) != IsPunct(runes[start]) {
			runs = append(runs, string(runes[start:i]))
			start = i
		}
	}

	// Merge a bare apostrophe run with a following letter run so that
	// clitics survive as single tokens.
	var out []string
	for i := 0; i < len(runs); i++ {
		if runs[i] == "'" && i+1 < len(runs) && !IsPunctToken(runs[i+1]) {
			out = append(out, "'"+runs[i+1])
			i++
			continue
		}
		out = append(out, runs[i])
	}
	return out
}

// Words returns the tokens of line with pure-punctuation tokens removed.
func Words(line string) []string {
	var words []string
	for _, tok := range Tokenize(line) {
		if !IsPunctToken(tok) {
			words = append(words, tok)
		}
	}
	return words
}

// RhymeWord extracts the line-final rhyme word: the lowercased,
// punctuation-stripped last word of the line. When the line ends with an
// apostrophe suffix ("nape's", "john's") the last two tokens are merged
// first so the possessive stays on its noun. ok is false when the line
// holds no word at all.
func RhymeWord(line string) (word string, ok bool) {
	words := Words(line)
	if endsWithApostropheSuffix(line) && len(words) > 1 {
		return StripPunct(strings.ToLower(words[len(words)-2] + words[len(words)-1])), true
	}
	if len(words) == 0 {
		return "", false
	}
	return StripPunct(strings.ToLower(words[len(words)-1])), true
}

// endsWithApostropheSuffix reports whether line ends in an apostrophe
// followed by one or more non-punctuation, non-space characters.
func endsWithApostropheSuffix(line string) bool {
	runes := []rune(strings.TrimRightFunc(line, unicode.IsSpace))
	n := 0
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\'' {
			return n > 0
		}
		if IsPunct(runes[i]) || runes[i] == ' ' {
			return false
		}
		n++
	}
	return false
}

// FinalNgram returns the last n grapheme clusters of word, or the whole
// word when it is no longer than n clusters. Slicing by grapheme cluster
// rather than byte keeps combining marks attached to their base letters.
func FinalNgram(word string, n int) string {
	if n <= 0 {
		return word
	}
	var clusters []string
	state := -1
	rest := word
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		clusters = append(clusters, cluster)
	}
	if len(clusters) <= n {
		return word
	}
	return strings.Join(clusters[len(clusters)-n:], "")
}
