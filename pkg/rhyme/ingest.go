package rhyme

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/verselabs/chime/internal/token"
	"github.com/verselabs/chime/pkg/transcribe"
)

// AddPoem ingests one poem: every line becomes a dataset record and every
// newly seen rhyme word enters the vocabulary. May be called repeatedly to
// grow the corpus before training.
//
// In transcribed mode each line must carry its own IPA and the transcriber
// is never called; otherwise transcription happens here, batched per poem
// ([Settings.FastIPA]) or line by line.
func (m *Model) AddPoem(ctx context.Context, poem Poem) error {
	slog.Debug("adding poem", "poem", m.poemID+1, "lines", len(poem.lines()))

	p := poem
	if m.settings.Radif <= 1 && !m.settings.Transcribed {
		var err error
		p, err = stripRadif(p, m.settings.Radif)
		if err != nil {
			return err
		}
	}

	switch {
	case m.settings.Transcribed:
		return m.addPoemTranscribed(p)
	case m.settings.FastIPA:
		return m.addPoemFast(ctx, p)
	default:
		return m.addPoemSlow(ctx, p)
	}
}

// addPoemFast transcribes the whole poem in one batched call: the lines
// followed by their rhyme words, all joined by the separator sentinel.
func (m *Model) addPoemFast(ctx context.Context, p Poem) error {
	flat := p.lines()
	texts := make([]string, len(flat))
	words := make([]string, len(flat))
	for i, l := range flat {
		texts[i] = token.TrimTrailing(strings.ReplaceAll(l.Text, "\n", " "))
		if w, ok := token.RhymeWord(texts[i]); ok {
			words[i] = w
		}
	}

	ipa, err := m.batch(ctx, append(texts, words...))
	if err != nil {
		return err
	}
	lineIPA, wordIPA := ipa[:len(flat)], ipa[len(flat):]

	idx := 0
	for stanzaID, st := range p {
		for range st {
			m.appendLine(words[idx], stanzaID, lineIPA[idx], wordIPA[idx])
			idx++
		}
	}
	m.poemID++
	return nil
}

// addPoemSlow transcribes one line at a time. Slower but immune to
// separator mangling by fragile transcriber voices.
func (m *Model) addPoemSlow(ctx context.Context, p Poem) error {
	for stanzaID, st := range p {
		for _, l := range st {
			text := token.TrimTrailing(strings.ReplaceAll(l.Text, "\n", " "))
			word, _ := token.RhymeWord(text)

			lineIPA, err := m.tr.IPA(ctx, text, m.settings.Lang)
			if err != nil {
				return err
			}
			wordIPA := ""
			if word != "" {
				if _, known := m.vocab[word]; !known {
					if wordIPA, err = m.tr.IPA(ctx, word, m.settings.Lang); err != nil {
						return err
					}
				}
			}
			m.appendLine(word, stanzaID, lineIPA, wordIPA)
		}
	}
	m.poemID++
	return nil
}

// addPoemTranscribed ingests caller-supplied IPA. The vocabulary
// fingerprint of a word comes from the final whitespace token of its
// line's IPA.
func (m *Model) addPoemTranscribed(p Poem) error {
	for stanzaID, st := range p {
		for _, l := range st {
			word := m.transcribedRhymeWord(l.Text)

			comps, redup := splitComponents(l.IPA, m.settings)
			m.data = append(m.data, lineRecord{
				word:     word,
				poemID:   m.poemID,
				stanzaID: stanzaID,
				comps:    comps,
				redup:    redup,
			})

			if word == "" {
				continue
			}
			if _, known := m.vocab[word]; known {
				continue
			}
			finalIPA := ""
			if fields := strings.Fields(l.IPA); len(fields) > 0 {
				finalIPA = fields[len(fields)-1]
			}
			wcomps, _ := splitComponents(finalIPA, m.settings)
			m.vocab[word] = vocabEntry{
				comps: wcomps,
				ngram: token.FinalNgram(word, m.settings.NgramLength),
			}
		}
	}
	m.poemID++
	return nil
}

// transcribedRhymeWord extracts the rhyme word from an orthographic line in
// transcribed mode. Mandarin has no word boundaries to tokenize on, so the
// final character is the rhyme carrier.
func (m *Model) transcribedRhymeWord(text string) string {
	if m.settings.Lang == "cmn" {
		runes := []rune(text)
		if len(runes) == 0 {
			return ""
		}
		return string(runes[len(runes)-1])
	}
	word, _ := token.RhymeWord(text)
	return word
}

// appendLine records one line and, for unseen rhyme words, the word's
// vocabulary fingerprint derived from its standalone transcription.
func (m *Model) appendLine(word string, stanzaID int, lineIPA, wordIPA string) {
	comps, redup := splitComponents(lineIPA, m.settings)
	m.data = append(m.data, lineRecord{
		word:     word,
		poemID:   m.poemID,
		stanzaID: stanzaID,
		comps:    comps,
		redup:    redup,
	})

	if word == "" {
		return
	}
	if _, known := m.vocab[word]; known {
		return
	}
	wcomps, _ := splitComponents(wordIPA, m.settings)
	m.vocab[word] = vocabEntry{
		comps: wcomps,
		ngram: token.FinalNgram(word, m.settings.NgramLength),
	}
}

// batch transcribes parts in one call using the memoized separator IPA.
func (m *Model) batch(ctx context.Context, parts []string) ([]string, error) {
	sep, err := m.separatorIPA(ctx)
	if err != nil {
		return nil, err
	}
	return transcribe.Batch(ctx, m.tr, m.settings.Lang, sep, parts)
}

// stripRadif removes radif — a word (or run of words) repeated at the end
// of at least threshold of the poem's lines — so the true rhyme preceding
// it becomes the line-final word. Lines are rebuilt from their tokens with
// single spaces; punctuation is shed in the process.
func stripRadif(p Poem, threshold float64) (Poem, error) {
	var tok [][]string
	total := 0
	for _, st := range p {
		for _, l := range st {
			tok = append(tok, token.Words(l.Text))
			total++
		}
	}
	if total == 0 {
		return p, nil
	}

	// A two-line poem where both lines end alike would strip its own
	// rhyme; nudge the threshold above one half for this poem only.
	if total <= 2 && threshold <= 0.5 {
		slog.Warn("radif threshold raised to 0.51 for short poem", "lines", total)
		threshold = 0.51
	}

	// Every stripping pass removes at least one token, so the token count
	// bounds the passes. Overrunning it means the loop is not converging.
	maxPasses := 0
	for _, t := range tok {
		maxPasses += len(t)
	}

	for pass := 0; ; pass++ {
		if pass > maxPasses {
			return nil, errors.New("rhyme: radif stripping did not converge")
		}
		counts := make(map[string]int)
		for _, t := range tok {
			if len(t) > 0 {
				counts[t[len(t)-1]]++
			}
		}
		stripped := false
		for w, c := range counts {
			if float64(c)/float64(total) >= threshold {
				stripped = true
				for i, t := range tok {
					if len(t) > 0 && t[len(t)-1] == w {
						tok[i] = t[:len(t)-1]
					}
				}
			}
		}
		if !stripped {
			break
		}
	}

	out := make(Poem, len(p))
	idx := 0
	for si, st := range p {
		ns := make(Stanza, len(st))
		for j := range st {
			ns[j] = Line{Text: strings.Join(tok[idx], " ")}
			idx++
		}
		out[si] = ns
	}
	return out, nil
}
