// Package transcribe defines the grapheme-to-phoneme boundary of the rhyme
// engine and the batching protocol used to amortize transcriber invocations.
//
// A [Transcriber] converts orthographic text into an IPA string carrying
// primary stress (ˈ), optional secondary stress (ˌ), length marks (ː, ˑ),
// the combining vertical line below (U+0329) on syllabic consonants, and a
// tie character (U+0361, or ASCII "_" as an accepted substitute) inside
// multi-character phonemes. Whitespace separates token transcriptions.
// Foreign-language switches may appear as parenthesized marks; the engine
// discards them.
//
// Transcribing a poem line by line is prohibitively slow for subprocess
// transcribers, so lines are joined with [Separator], transcribed in one
// call, and the returned IPA is split on the separator's own transcription.
// Implementations must preserve ordering across such batched calls.
package transcribe

import (
	"context"
	"fmt"
	"strings"
)

// Separator is the sentinel token used to join lines for batched
// transcription. It is chosen to transcribe into a stable, unmistakable
// IPA sequence in every supported language.
const Separator = " {.SEPARATORLINER.} "

// Transcriber converts orthographic text into IPA.
//
// Implementations must be safe for concurrent use.
type Transcriber interface {
	// IPA transcribes text in the given language and returns the IPA
	// string. Newlines in text may be treated as spaces. An error is
	// returned when the underlying transcriber is unavailable or fails.
	IPA(ctx context.Context, text, lang string) (string, error)
}

// SeparatorIPA obtains the IPA rendering of [Separator] by transcribing the
// sentinel alone. The result is what batched output is split on; callers
// should obtain it once per model and reuse it.
func SeparatorIPA(ctx context.Context, tr Transcriber, lang string) (string, error) {
	ipa, err := tr.IPA(ctx, Separator, lang)
	if err != nil {
		return "", fmt.Errorf("transcribe: separator: %w", err)
	}
	return strings.TrimSpace(ipa), nil
}

// Batch transcribes parts in a single call by joining them with [Separator]
// and splitting the result on sepIPA. The returned slice is aligned with
// parts: out[i] is the IPA of parts[i].
//
// A part count mismatch after splitting means the transcriber mangled the
// sentinel and the output cannot be aligned; this is reported as an error
// rather than silently mis-assigning transcriptions to lines.
func Batch(ctx context.Context, tr Transcriber, lang, sepIPA string, parts []string) ([]string, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	ipa, err := tr.IPA(ctx, strings.Join(parts, Separator), lang)
	if err != nil {
		return nil, fmt.Errorf("transcribe: batch of %d parts: %w", len(parts), err)
	}
	out := strings.Split(ipa, sepIPA)
	for i, s := range out {
		out[i] = strings.TrimSpace(s)
	}
	if len(out) != len(parts) {
		return nil, fmt.Errorf("transcribe: batch of %d parts split into %d segments; separator %q not preserved", len(parts), len(out), sepIPA)
	}
	return out, nil
}
