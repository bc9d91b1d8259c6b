// Package mock provides a scripted [transcribe.Transcriber] for tests.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/verselabs/chime/pkg/transcribe"
)

// SeparatorIPA is the fixed transcription the mock returns for the batching
// sentinel, standing in for whatever a real engine would produce.
const SeparatorIPA = "sɛpəɹˈeɪtəlˈaɪnə"

// Transcriber serves IPA from a scripted table. Batched input joined with
// [transcribe.Separator] is handled transparently: each segment is resolved
// independently and the results are joined with [SeparatorIPA], so engine
// code exercises the same split path it uses against a real transcriber.
//
// Segment resolution order: exact table hit on the trimmed segment, then
// word-by-word table lookup joined with spaces. Unknown words are an error
// so that incomplete test tables fail loudly. The empty segment (used as a
// placeholder for wordless lines) transcribes to the empty string.
//
// Safe for concurrent use.
type Transcriber struct {
	// Table maps orthographic text (lines or single words) to IPA.
	Table map[string]string

	// Func, when non-nil, replaces table lookup entirely.
	Func func(ctx context.Context, text, lang string) (string, error)

	mu    sync.Mutex
	calls int
}

// Compile-time interface check.
var _ transcribe.Transcriber = (*Transcriber)(nil)

// Calls returns how many times IPA has been invoked.
func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// IPA resolves text against the scripted table.
func (t *Transcriber) IPA(ctx context.Context, text, lang string) (string, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	if t.Func != nil {
		return t.Func(ctx, text, lang)
	}

	segments := strings.Split(text, transcribe.Separator)
	out := make([]string, len(segments))
	for i, seg := range segments {
		ipa, err := t.segment(strings.TrimSpace(seg))
		if err != nil {
			return "", err
		}
		out[i] = ipa
	}
	return strings.Join(out, " "+SeparatorIPA+" "), nil
}

func (t *Transcriber) segment(seg string) (string, error) {
	if seg == "" {
		return "", nil
	}
	if seg == strings.TrimSpace(transcribe.Separator) {
		return SeparatorIPA, nil
	}
	if ipa, ok := t.Table[seg]; ok {
		return ipa, nil
	}
	words := strings.Fields(seg)
	ipas := make([]string, len(words))
	for i, w := range words {
		ipa, ok := t.Table[w]
		if !ok {
			ipa, ok = t.Table[strings.ToLower(w)]
		}
		if !ok {
			return "", fmt.Errorf("mock: no IPA scripted for %q (segment %q)", w, seg)
		}
		ipas[i] = ipa
	}
	return strings.Join(ipas, " "), nil
}
