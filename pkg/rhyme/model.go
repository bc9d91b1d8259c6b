// Package rhyme implements collocation-driven unsupervised discovery of
// end-line rhymes in corpora of poetic text.
//
// The method follows Plecháč, P. (2018): A Collocation-Driven Method of
// Discovering Rhymes (in Czech, English, and French Poetry). Line-final
// words that co-occur within a sliding window significantly more often than
// chance seed a training set; per-position sound-component pair
// probabilities are estimated from that set; rhymes detected with those
// probabilities rebuild the training set; and the loop iterates until the
// probability tables stop changing.
//
// A [Model] is used in one of two lifecycles:
//
//	m, _ := rhyme.NewModel(settings, transcriber)
//	m.AddPoem(ctx, poem)   // repeatable
//	m.Train()
//	m.Save("cs.json")
//
// or, for tagging with a previously trained model:
//
//	m, _ := rhyme.Load("cs.json", transcriber)
//	rhymes, _ := m.Tag(ctx, poem)
//	scheme := rhymes.Scheme()
//
// Tagging never mutates the model: each Tag call owns a private dataset and
// vocabulary over the shared, read-only probability tables, so concurrent
// Tag calls against one loaded model are safe.
package rhyme

import (
	"context"
	"errors"
	"fmt"

	"github.com/verselabs/chime/pkg/transcribe"
)

// Sentinel errors returned by the model lifecycle.
var (
	// ErrEmptyCorpus is returned by [Model.Train] when no lines have been
	// ingested.
	ErrEmptyCorpus = errors.New("rhyme: no poems added to the model")

	// ErrNotTrained is returned by [Model.Tag] and [Model.Save] when the
	// model holds no probability tables (neither trained nor loaded).
	ErrNotTrained = errors.New("rhyme: model has not been trained or loaded")
)

// Model is the rhyme-learning engine. It accumulates line records and a
// rhyme-word vocabulary during ingestion, learns pair probabilities during
// training, and applies them when tagging.
//
// A Model is not safe for concurrent mutation (AddPoem, Train); Tag calls
// are safe to run concurrently once the model is trained or loaded.
type Model struct {
	settings Settings
	tr       transcribe.Transcriber

	// sepIPA is the memoized transcription of the batching sentinel.
	sepIPA string

	data   []lineRecord
	vocab  map[string]vocabEntry
	poemID int

	// freqs is computed once per training run from the ingested corpus.
	freqs *frequencies

	// probs is the estimator output; nil until trained or loaded.
	probs *probTables
}

// lineRecord is the per-line dataset entry. word is empty when the line
// holds no word; such lines still occupy an index so that window distances
// reflect the printed poem.
type lineRecord struct {
	word     string
	poemID   int
	stanzaID int
	comps    []string
	redup    float64
}

// vocabEntry is the per-word fingerprint: sound components of the word
// transcribed in isolation, and the word-final character n-gram.
type vocabEntry struct {
	comps []string
	ngram string
}

// NewModel creates an untrained model with the given settings. tr supplies
// IPA transcriptions and is required unless s.Transcribed is set (in which
// case every ingested [Line] must carry its own IPA).
func NewModel(s Settings, tr transcribe.Transcriber) (*Model, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if !s.Transcribed && tr == nil {
		return nil, errors.New("rhyme: a transcriber is required when input is not pre-transcribed")
	}
	return &Model{
		settings: s,
		tr:       tr,
		vocab:    make(map[string]vocabEntry),
	}, nil
}

// Settings returns a copy of the model's settings.
func (m *Model) Settings() Settings {
	return m.settings
}

// Lines returns the number of ingested corpus lines, including wordless
// ones.
func (m *Model) Lines() int {
	return len(m.data)
}

// separatorIPA memoizes the transcription of the batching sentinel.
func (m *Model) separatorIPA(ctx context.Context) (string, error) {
	if m.sepIPA != "" {
		return m.sepIPA, nil
	}
	sep, err := transcribe.SeparatorIPA(ctx, m.tr, m.settings.Lang)
	if err != nil {
		return "", err
	}
	m.sepIPA = sep
	return sep, nil
}

// Tag annotates poem with rhymes using the model's stored probabilities.
// Per-call option overrides adjust detection settings without touching the
// model; the model itself is never mutated.
func (m *Model) Tag(ctx context.Context, poem Poem, opts ...TagOption) (*Rhymes, error) {
	if m.probs == nil {
		return nil, ErrNotTrained
	}

	s := m.settings
	for _, o := range opts {
		o(&s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if !s.Transcribed && m.tr == nil {
		return nil, errors.New("rhyme: a transcriber is required when input is not pre-transcribed")
	}

	// A private run: fresh dataset and vocabulary, shared read-only probs.
	run := &Model{
		settings: s,
		tr:       m.tr,
		sepIPA:   m.sepIPA,
		vocab:    make(map[string]vocabEntry),
		probs:    m.probs,
	}
	if err := run.AddPoem(ctx, poem); err != nil {
		return nil, fmt.Errorf("rhyme: tag: %w", err)
	}
	det := run.detectRhymes(s.Ngram != 0)
	return &Rhymes{neighbors: det.rhymes, lines: len(run.data)}, nil
}
